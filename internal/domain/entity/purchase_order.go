package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	PurchaseOrderPending   = "PENDIENTE"
	PurchaseOrderCompleted = "COMPLETADA"
	PurchaseOrderCancelled = "CANCELADA"
)

// PurchaseOrder representa una orden de compra a un proveedor.
// Al recibirla se crea un lote por cada línea de detalle y pasa a COMPLETADA.
type PurchaseOrder struct {
	ID         string
	SupplierID string
	Status     string
	CreatedAt  time.Time
	ReceivedAt *time.Time // nil mientras esté pendiente
	Details    []PurchaseOrderDetail
}

// PurchaseOrderDetail es una línea de una orden de compra.
type PurchaseOrderDetail struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
}
