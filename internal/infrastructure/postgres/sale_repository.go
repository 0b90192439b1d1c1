package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementa SaleRepository sobre las tablas ventas y
// detalles_venta. Igual que las órdenes de compra, la atomicidad
// venta+detalles la da el TxRunner.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ventas (id, cajero_id, fecha, total)
		VALUES ($1, $2, $3, $4)`,
		sale.ID, sale.CashierID, sale.Date, sale.Total)
	if err != nil {
		return fmt.Errorf("crear venta: %w", err)
	}
	for i := range sale.Details {
		d := &sale.Details[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO detalles_venta (id, venta_id, producto_id, cantidad, precio_unitario, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			d.ID, d.SaleID, d.ProductID, d.Quantity, d.UnitPrice, d.Subtotal)
		if err != nil {
			return fmt.Errorf("crear detalle de venta: %w", err)
		}
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, cajero_id, fecha, total FROM ventas WHERE id = $1`, id).
		Scan(&s.ID, &s.CashierID, &s.Date, &s.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("buscar venta: %w", err)
	}
	details, err := r.detailsFor(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Details = details
	return &s, nil
}

func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, cajero_id, fecha, total
		FROM ventas
		ORDER BY fecha DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CashierID, &s.Date, &s.Total); err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range out {
		details, err := r.detailsFor(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Details = details
	}
	return out, nil
}

func (r *SaleRepo) SalesSubtotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(dv.subtotal), 0)
		FROM detalles_venta dv
		JOIN ventas v ON v.id = dv.venta_id
		WHERE v.fecha >= $1 AND v.fecha <= $2`, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("subtotal de ventas del periodo: %w", err)
	}
	return total, nil
}

func (r *SaleRepo) detailsFor(ctx context.Context, saleID string) ([]entity.SaleDetail, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, venta_id, producto_id, cantidad, precio_unitario, subtotal
		FROM detalles_venta
		WHERE venta_id = $1
		ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("detalles de venta: %w", err)
	}
	defer rows.Close()

	var out []entity.SaleDetail
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(&d.ID, &d.SaleID, &d.ProductID, &d.Quantity, &d.UnitPrice, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan detalle de venta: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
