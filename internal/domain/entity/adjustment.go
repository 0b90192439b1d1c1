package entity

import "time"

// Motivos de ajuste de inventario.
const (
	AdjustmentReasonCount   = "CONTEO"   // conteo físico
	AdjustmentReasonDamage  = "MERMA"    // producto dañado o vencido
	AdjustmentReasonTheft   = "PERDIDA"  // pérdida o robo
	AdjustmentReasonOther   = "OTRO"
)

// InventoryAdjustment registra la corrección manual de la cantidad de un
// StockItem tras un conteo físico. La cantidad del StockItem se actualiza
// en la misma transacción que crea este registro de auditoría.
type InventoryAdjustment struct {
	ID          string
	StockItemID string
	PreviousQty int64
	NewQty      int64
	Reason      string
	Notes       string
	UserID      string
	CreatedAt   time.Time
}
