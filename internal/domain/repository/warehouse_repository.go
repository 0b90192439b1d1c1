package repository

import (
	"context"

	"github.com/mercamax/mercamax-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para ubicaciones
// (bodegas y estantes).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	List(ctx context.Context, limit, offset int) ([]*entity.Location, error)
	Delete(ctx context.Context, id string) error
}

// LocationCategoryRepository define el puerto para categorías de ubicación.
type LocationCategoryRepository interface {
	Create(ctx context.Context, category *entity.LocationCategory) error
	GetByID(ctx context.Context, id string) (*entity.LocationCategory, error)
	List(ctx context.Context) ([]*entity.LocationCategory, error)
	Delete(ctx context.Context, id string) error
}

// LotRepository define el puerto de persistencia para lotes.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	GetByCode(ctx context.Context, code string) (*entity.Lot, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Lot, error)
	Delete(ctx context.Context, id string) error
}

// StockItemRepository define el puerto de persistencia para stock items.
// Upsert respeta la unicidad (lote, ubicación): crear de nuevo el mismo par
// actualiza la cantidad existente.
type StockItemRepository interface {
	Upsert(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetByLotAndLocation(ctx context.Context, lotID, locationID string) (*entity.StockItem, error)
	List(ctx context.Context, limit, offset int) ([]*entity.StockItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	Delete(ctx context.Context, id string) error
}

// AdjustmentRepository define el puerto para ajustes de inventario (auditoría).
type AdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.InventoryAdjustment) error
	ListByStockItem(ctx context.Context, stockItemID string) ([]*entity.InventoryAdjustment, error)
}
