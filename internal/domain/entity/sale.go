package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta registrada en caja.
type Sale struct {
	ID        string
	CashierID string
	Date      time.Time
	Total     decimal.Decimal
	Details   []SaleDetail
}

// SaleDetail es una línea de venta. UnitPrice es el precio al momento de la
// venta; Subtotal = Quantity * UnitPrice, calculado en el servidor.
type SaleDetail struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
