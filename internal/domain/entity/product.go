package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del supermercado.
// El stock nunca se guarda aquí: se deriva de los StockItem de sus lotes.
// El costo promedio ponderado también es derivado (ver domain/stock).
type Product struct {
	ID          string
	Name        string
	Barcode     string // código de barras, único
	Description string
	Price       decimal.Decimal // precio de venta
	MinStock    int64           // punto de reorden (stock_minimo)
	CategoryID  string          // vacío si no tiene categoría asignada
	SupplierID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
