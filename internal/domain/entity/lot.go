package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa un lote: una partida de un producto recibida junta,
// con su propia fecha de caducidad y costo de compra unitario.
type Lot struct {
	ID         string
	ProductID  string
	Code       string // código o número de remisión del proveedor, único
	ReceivedAt time.Time
	ExpiresAt  time.Time       // fecha de caducidad (solo la fecha importa)
	UnitCost   decimal.Decimal // costo de compra por unidad del lote
	CreatedAt  time.Time
}
