package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mercamax/mercamax-api/internal/application/alerts"
	"github.com/mercamax/mercamax-api/internal/application/auth"
	"github.com/mercamax/mercamax-api/internal/application/usecase"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	ProductUC      *usecase.ProductUseCase
	SupplierUC     *usecase.SupplierUseCase
	CategoryUC     *usecase.CategoryUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	PurchaseUC     *usecase.PurchaseUseCase
	SaleUC         *usecase.SaleUseCase
	ReportUC       *usecase.ReportUseCase
	NotificationUC *usecase.NotificationUseCase
	AlertsUC       *alerts.UseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	sessionAuth := AuthMiddleware(deps.JWTSecret)
	manageInventory := RequireRole(entity.RoleInventoryManager, entity.RoleStoreManager)
	managePurchases := RequireRole(entity.RolePurchasingManager, entity.RoleStoreManager)
	registerSales := RequireRole(entity.RoleCashier, entity.RoleStoreManager)
	onlyManager := RequireRole(entity.RoleStoreManager)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/verify-2fa", TwoFAMiddleware(deps.JWTSecret), authHandler.Verify2FA)
	authGroup.Post("/activate", authHandler.Activate)
	authGroup.Post("/validate-token", authHandler.ValidateToken)
	authGroup.Post("/password-reset", authHandler.RequestPasswordReset)
	authGroup.Post("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	authGroup.Get("/roles", authHandler.Roles)
	authGroup.Get("/me", sessionAuth, authHandler.Me)
	authGroup.Post("/invite", sessionAuth, onlyManager, authHandler.Invite)

	// Rutas protegidas (requieren token de sesión)
	protected := api.Group("/", sessionAuth)

	// Inventario: productos, proveedores, categorías
	inventario := protected.Group("/inventario")
	productHandler := NewProductHandler(deps.ProductUC)
	inventario.Post("/productos", manageInventory, productHandler.Create)
	inventario.Get("/productos", productHandler.List)
	inventario.Get("/productos/barcode/:codigo", productHandler.GetByBarcode)
	inventario.Get("/productos/:id", productHandler.GetByID)
	inventario.Put("/productos/:id", manageInventory, productHandler.Update)
	inventario.Delete("/productos/:id", manageInventory, productHandler.Delete)
	inventario.Get("/productos/:id/stock", productHandler.StockDetails)
	inventario.Get("/stats", productHandler.Stats)

	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	inventario.Post("/proveedores", manageInventory, supplierHandler.Create)
	inventario.Get("/proveedores", supplierHandler.List)
	inventario.Get("/proveedores/:id", supplierHandler.GetByID)
	inventario.Put("/proveedores/:id", manageInventory, supplierHandler.Update)
	inventario.Delete("/proveedores/:id", manageInventory, supplierHandler.Delete)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	inventario.Post("/categorias", manageInventory, categoryHandler.Create)
	inventario.Get("/categorias", categoryHandler.List)
	inventario.Delete("/categorias/:id", manageInventory, categoryHandler.Delete)

	// Bodega: ubicaciones, lotes, stock, ajustes, reportes y alertas
	bodega := protected.Group("/bodega")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	bodega.Post("/ubicaciones", manageInventory, warehouseHandler.CreateLocation)
	bodega.Get("/ubicaciones", warehouseHandler.ListLocations)
	bodega.Get("/ubicaciones/tipos", warehouseHandler.LocationTypes)
	bodega.Get("/ubicaciones/:id", warehouseHandler.GetLocation)
	bodega.Put("/ubicaciones/:id", manageInventory, warehouseHandler.UpdateLocation)
	bodega.Delete("/ubicaciones/:id", manageInventory, warehouseHandler.DeleteLocation)
	bodega.Post("/categorias-ubicacion", manageInventory, warehouseHandler.CreateLocationCategory)
	bodega.Get("/categorias-ubicacion", warehouseHandler.ListLocationCategories)
	bodega.Delete("/categorias-ubicacion/:id", manageInventory, warehouseHandler.DeleteLocationCategory)
	bodega.Post("/lotes", manageInventory, warehouseHandler.CreateLot)
	bodega.Get("/lotes", warehouseHandler.ListLots)
	bodega.Get("/lotes/:id", warehouseHandler.GetLot)
	bodega.Delete("/lotes/:id", manageInventory, warehouseHandler.DeleteLot)
	bodega.Post("/stock", manageInventory, warehouseHandler.PlaceStock)
	bodega.Get("/stock", warehouseHandler.ListStockItems)
	bodega.Post("/ajustes", manageInventory, warehouseHandler.AdjustInventory)

	reportHandler := NewReportHandler(deps.ReportUC, deps.AlertsUC)
	bodega.Get("/reportes/valoracion", reportHandler.Valuation)
	bodega.Get("/reportes/valoracion/pdf", reportHandler.ValuationPDF)
	bodega.Get("/reportes/rotacion", reportHandler.Turnover)
	bodega.Get("/alertas/stock-bajo", reportHandler.LowStock)
	bodega.Get("/alertas/por-vencer", reportHandler.ExpiringLots)
	bodega.Post("/alertas/generar", onlyManager, reportHandler.RunAlerts)

	// Compras
	compras := protected.Group("/compras", managePurchases)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	compras.Post("/ordenes", purchaseHandler.Create)
	compras.Get("/ordenes", purchaseHandler.List)
	compras.Get("/ordenes/:id", purchaseHandler.GetByID)
	compras.Post("/ordenes/:id/recibir", purchaseHandler.Receive)
	compras.Post("/ordenes/:id/cancelar", purchaseHandler.Cancel)

	// Ventas
	ventas := protected.Group("/ventas")
	saleHandler := NewSaleHandler(deps.SaleUC)
	ventas.Post("/", registerSales, saleHandler.Create)
	ventas.Get("/", saleHandler.List)
	ventas.Get("/:id", saleHandler.GetByID)

	// Notificaciones
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	protected.Get("/notificaciones", notificationHandler.List)
	protected.Post("/notificaciones/:id/leida", notificationHandler.MarkRead)
}
