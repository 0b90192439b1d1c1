package entity

import "time"

// StockItem representa la cantidad de un lote físicamente presente en una
// ubicación. Invariante: a lo más un StockItem por par (lote, ubicación),
// y la cantidad nunca es negativa.
type StockItem struct {
	ID         string
	LotID      string
	LocationID string
	Quantity   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
