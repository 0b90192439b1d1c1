package usecase

import (
	"context"

	"github.com/mercamax/mercamax-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios ligados a una misma transacción. Los casos
// de uso que necesitan leer-validar-escribir atómicamente (colocación de
// stock, ajustes, recepción de órdenes, ventas) reciben estos repositorios
// dentro del callback del TxRunner en lugar de usar los del pool.
type TxRepos struct {
	Products           repository.ProductRepository
	ProductCategories  repository.ProductCategoryRepository
	Suppliers          repository.SupplierRepository
	Locations          repository.LocationRepository
	LocationCategories repository.LocationCategoryRepository
	Lots               repository.LotRepository
	StockItems         repository.StockItemRepository
	Adjustments        repository.AdjustmentRepository
	StockQuery         repository.StockQueryRepository
	PurchaseOrders     repository.PurchaseOrderRepository
	Sales              repository.SaleRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn devuelve nil,
// rollback en caso contrario. La implementación vive en infrastructure/postgres.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(repos TxRepos) error) error
}
