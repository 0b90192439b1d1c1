package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mercamax/mercamax-api/internal/domain/repository"
	"github.com/mercamax/mercamax-api/internal/domain/stock"
)

var _ repository.StockQueryRepository = (*StockQueryRepo)(nil)

// StockQueryRepo implementa las consultas de agregación de stock.
// Todos los totales van con COALESCE a 0: la ausencia de filas es un total
// de cero, nunca NULL ni error. Este es el único lugar donde ese coalesce
// ocurre; el resto del código confía en los valores ya agregados.
type StockQueryRepo struct {
	q Querier
}

func NewStockQueryRepository(q Querier) *StockQueryRepo {
	return &StockQueryRepo{q: q}
}

func (r *StockQueryRepo) TotalStockByProduct(ctx context.Context, productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(si.cantidad), 0)
		FROM stock_items si
		JOIN lotes l ON l.id = si.lote_id
		WHERE l.producto_id = $1`, productID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("stock total de producto: %w", err)
	}
	return total, nil
}

func (r *StockQueryRepo) TotalStockByLot(ctx context.Context, lotID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(cantidad), 0) FROM stock_items WHERE lote_id = $1`, lotID).
		Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("stock total de lote: %w", err)
	}
	return total, nil
}

func (r *StockQueryRepo) TotalAtLocation(ctx context.Context, locationID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(cantidad), 0) FROM stock_items WHERE ubicacion_id = $1`, locationID).
		Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total en ubicacion: %w", err)
	}
	return total, nil
}

func (r *StockQueryRepo) FactsByProduct(ctx context.Context, productID string) ([]stock.Fact, error) {
	rows, err := r.q.Query(ctx, `
		SELECT l.producto_id, l.id, si.cantidad, l.costo_compra
		FROM stock_items si
		JOIN lotes l ON l.id = si.lote_id
		WHERE l.producto_id = $1`, productID)
	if err != nil {
		return nil, fmt.Errorf("hechos de stock de producto: %w", err)
	}
	defer rows.Close()

	var facts []stock.Fact
	for rows.Next() {
		var f stock.Fact
		if err := rows.Scan(&f.ProductID, &f.LotID, &f.Quantity, &f.UnitCost); err != nil {
			return nil, fmt.Errorf("scan hecho de stock: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func (r *StockQueryRepo) ValuationGroups(ctx context.Context) ([]stock.ProductFacts, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.nombre, COALESCE(l.id, ''), COALESCE(si.cantidad, 0), COALESCE(l.costo_compra, 0)
		FROM productos p
		LEFT JOIN lotes l ON l.producto_id = p.id
		LEFT JOIN stock_items si ON si.lote_id = l.id
		ORDER BY p.nombre, l.id`)
	if err != nil {
		return nil, fmt.Errorf("grupos de valoracion: %w", err)
	}
	defer rows.Close()

	var out []stock.ProductFacts
	index := make(map[string]int)
	for rows.Next() {
		var (
			productID, productName string
			f                      stock.Fact
		)
		if err := rows.Scan(&productID, &productName, &f.LotID, &f.Quantity, &f.UnitCost); err != nil {
			return nil, fmt.Errorf("scan grupo de valoracion: %w", err)
		}
		i, ok := index[productID]
		if !ok {
			i = len(out)
			index[productID] = i
			out = append(out, stock.ProductFacts{ProductID: productID, ProductName: productName})
		}
		if f.LotID == "" {
			// Producto sin lotes: grupo vacío, el núcleo lo trata como stock 0.
			continue
		}
		f.ProductID = productID
		out[i].Facts = append(out[i].Facts, f)
	}
	return out, rows.Err()
}

func (r *StockQueryRepo) ProductsAtOrBelowMinStock(ctx context.Context) ([]repository.ProductStockSummary, error) {
	// El LEFT JOIN con COALESCE hace que un producto sin ningún stock item
	// cuente como stock 0, no que desaparezca de la alerta.
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.nombre, p.stock_minimo, COALESCE(SUM(si.cantidad), 0) AS stock_total
		FROM productos p
		LEFT JOIN lotes l ON l.producto_id = p.id
		LEFT JOIN stock_items si ON si.lote_id = l.id
		GROUP BY p.id, p.nombre, p.stock_minimo
		HAVING COALESCE(SUM(si.cantidad), 0) <= p.stock_minimo
		ORDER BY p.nombre`)
	if err != nil {
		return nil, fmt.Errorf("productos bajo minimo: %w", err)
	}
	defer rows.Close()

	var out []repository.ProductStockSummary
	for rows.Next() {
		var s repository.ProductStockSummary
		if err := rows.Scan(&s.ProductID, &s.Name, &s.MinStock, &s.StockTotal); err != nil {
			return nil, fmt.Errorf("scan producto bajo minimo: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StockQueryRepo) ExpiringLots(ctx context.Context, from, to time.Time) ([]repository.ExpiringLotRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT l.id, l.codigo_lote, l.producto_id, p.nombre, l.fecha_caducidad,
		       COALESCE(SUM(si.cantidad), 0) AS stock_total
		FROM lotes l
		JOIN productos p ON p.id = l.producto_id
		LEFT JOIN stock_items si ON si.lote_id = l.id
		WHERE l.fecha_caducidad BETWEEN $1 AND $2
		GROUP BY l.id, l.codigo_lote, l.producto_id, p.nombre, l.fecha_caducidad
		HAVING COALESCE(SUM(si.cantidad), 0) > 0
		ORDER BY l.fecha_caducidad`, from, to)
	if err != nil {
		return nil, fmt.Errorf("lotes por vencer: %w", err)
	}
	defer rows.Close()

	var out []repository.ExpiringLotRow
	for rows.Next() {
		var e repository.ExpiringLotRow
		if err := rows.Scan(&e.LotID, &e.Code, &e.ProductID, &e.ProductName, &e.ExpiresAt, &e.StockTotal); err != nil {
			return nil, fmt.Errorf("scan lote por vencer: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *StockQueryRepo) StockDetailsByProduct(ctx context.Context, productID string) ([]repository.StockDetailRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT u.nombre, l.codigo_lote, l.fecha_caducidad, si.cantidad
		FROM stock_items si
		JOIN lotes l ON l.id = si.lote_id
		JOIN ubicaciones u ON u.id = si.ubicacion_id
		WHERE l.producto_id = $1
		ORDER BY u.nombre, l.codigo_lote`, productID)
	if err != nil {
		return nil, fmt.Errorf("desglose de stock: %w", err)
	}
	defer rows.Close()

	var out []repository.StockDetailRow
	for rows.Next() {
		var d repository.StockDetailRow
		if err := rows.Scan(&d.LocationName, &d.LotCode, &d.ExpiresAt, &d.Quantity); err != nil {
			return nil, fmt.Errorf("scan desglose de stock: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
