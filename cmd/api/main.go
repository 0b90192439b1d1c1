package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mercamax/mercamax-api/internal/application/alerts"
	"github.com/mercamax/mercamax-api/internal/application/auth"
	"github.com/mercamax/mercamax-api/internal/application/usecase"
	inframail "github.com/mercamax/mercamax-api/internal/infrastructure/mail"
	infrapdf "github.com/mercamax/mercamax-api/internal/infrastructure/pdf"
	"github.com/mercamax/mercamax-api/internal/infrastructure/postgres"
	httpRouter "github.com/mercamax/mercamax-api/internal/interfaces/http"
	"github.com/mercamax/mercamax-api/pkg/config"
	"github.com/mercamax/mercamax-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	deviceRepo := postgres.NewTrustedDeviceRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewProductCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	locationCategoryRepo := postgres.NewLocationCategoryRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	stockItemRepo := postgres.NewStockItemRepository(pool)
	stockQueryRepo := postgres.NewStockQueryRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Mailer: SendGrid con API key; sin ella, los correos van al log.
	var mailer auth.Mailer
	if cfg.Mail.APIKey != "" {
		mailer = inframail.NewSendGridMailer(cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.FromName, log)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY vacío: correos en modo log")
		mailer = inframail.NewLogMailer(log)
	}

	authUC := auth.NewUseCase(userRepo, deviceRepo, mailer, auth.Config{
		JWTSecret:         cfg.JWT.Secret,
		JWTIssuer:         cfg.JWT.Issuer,
		SessionMinutes:    cfg.JWT.Expiration,
		TempMinutes:       cfg.JWT.TempExp,
		FrontendURL:       cfg.App.FrontendURL,
		TrustedDeviceDays: cfg.Alerts.TrustedDeviceDays,
	}, log)

	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, supplierRepo, stockQueryRepo, log)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	warehouseUC := usecase.NewWarehouseUseCase(
		locationRepo, locationCategoryRepo, lotRepo, stockItemRepo,
		productRepo, stockQueryRepo, txRunner, log,
	)
	purchaseUC := usecase.NewPurchaseUseCase(orderRepo, supplierRepo, productRepo, txRunner, log)
	saleUC := usecase.NewSaleUseCase(saleRepo, productRepo, txRunner, log)
	reportUC := usecase.NewReportUseCase(stockQueryRepo, saleRepo, infrapdf.NewMarotoValuationGenerator())
	notificationUC := usecase.NewNotificationUseCase(notificationRepo)
	alertsUC := alerts.NewUseCase(userRepo, stockQueryRepo, notificationRepo, alerts.Config{
		AudienceRoles:    cfg.Alerts.Roles,
		ExpiryWindowDays: cfg.Alerts.ExpiryWindowDays,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MercaMax API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		SupplierUC:     supplierUC,
		CategoryUC:     categoryUC,
		WarehouseUC:    warehouseUC,
		PurchaseUC:     purchaseUC,
		SaleUC:         saleUC,
		ReportUC:       reportUC,
		NotificationUC: notificationUC,
		AlertsUC:       alertsUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
