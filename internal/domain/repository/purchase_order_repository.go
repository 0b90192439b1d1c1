package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercamax/mercamax-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	// Create persiste la orden con sus líneas de detalle.
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error)

	// UpdateStatus cambia el estado y, si se recibe, la fecha de recepción.
	UpdateStatus(ctx context.Context, order *entity.PurchaseOrder) error
}

// SaleRepository define el puerto de persistencia para ventas.
type SaleRepository interface {
	// Create persiste la venta con sus líneas de detalle atómicamente.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)

	// SalesSubtotalBetween suma los subtotales de las líneas de venta del
	// período (aproximación de costo de ventas del reporte de rotación).
	// Coalesce a 0 cuando no hay ventas.
	SalesSubtotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
