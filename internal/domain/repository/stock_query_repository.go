package repository

import (
	"context"
	"time"

	"github.com/mercamax/mercamax-api/internal/domain/stock"
)

// ProductStockSummary es el resultado crudo de la consulta de stock agregado
// por producto. StockTotal ya viene coalescido a 0 cuando no hay filas: el
// COALESCE vive en la frontera de agregación, nunca en los call sites.
type ProductStockSummary struct {
	ProductID  string
	Name       string
	MinStock   int64
	StockTotal int64
}

// ExpiringLotRow es el resultado crudo de la consulta de lotes por vencer.
type ExpiringLotRow struct {
	LotID       string
	Code        string
	ProductID   string
	ProductName string
	ExpiresAt   time.Time
	StockTotal  int64
}

// StockDetailRow es una fila del desglose de stock de un producto por
// ubicación y lote.
type StockDetailRow struct {
	LocationName string
	LotCode      string
	ExpiresAt    time.Time
	Quantity     int64
}

// StockQueryRepository define las consultas de agregación de stock.
// Las implementaciones son read-only; toda ausencia de filas agrega a cero.
type StockQueryRepository interface {
	// TotalStockByProduct suma las cantidades de todos los stock items de
	// los lotes del producto. Sin stock devuelve 0, no error.
	TotalStockByProduct(ctx context.Context, productID string) (int64, error)

	// TotalStockByLot suma las cantidades de los stock items del lote.
	TotalStockByLot(ctx context.Context, lotID string) (int64, error)

	// TotalAtLocation suma las unidades actualmente en una ubicación
	// (todos los lotes). Alimenta la validación de capacidad.
	TotalAtLocation(ctx context.Context, locationID string) (int64, error)

	// FactsByProduct devuelve los hechos (cantidad, costo de lote) del
	// producto para el cálculo puro del costo promedio ponderado.
	FactsByProduct(ctx context.Context, productID string) ([]stock.Fact, error)

	// ValuationGroups devuelve los hechos de stock agrupados por producto
	// para el reporte de valoración (incluye productos sin stock; el núcleo
	// puro los excluye).
	ValuationGroups(ctx context.Context) ([]stock.ProductFacts, error)

	// ProductsAtOrBelowMinStock devuelve los productos cuyo stock total
	// (coalescido a 0) es menor o igual a su punto de reorden.
	ProductsAtOrBelowMinStock(ctx context.Context) ([]ProductStockSummary, error)

	// ExpiringLots devuelve los lotes con stock > 0 cuya fecha de caducidad
	// cae en [from, to], ordenados por fecha de caducidad.
	ExpiringLots(ctx context.Context, from, to time.Time) ([]ExpiringLotRow, error)

	// StockDetailsByProduct devuelve la distribución del stock del producto
	// por ubicación y lote, ordenada por nombre de ubicación.
	StockDetailsByProduct(ctx context.Context, productID string) ([]StockDetailRow, error)
}
