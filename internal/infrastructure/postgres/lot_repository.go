package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del puerto LotRepository sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, producto_id, codigo_lote, fecha_recepcion, fecha_caducidad, costo_compra, created_at`

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(&l.ID, &l.ProductID, &l.Code, &l.ReceivedAt, &l.ExpiresAt, &l.UnitCost, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan lote: %w", err)
	}
	return &l, nil
}

func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	query := `
		INSERT INTO lotes (id, producto_id, codigo_lote, fecha_recepcion, fecha_caducidad, costo_compra, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.q.Exec(ctx, query, l.ID, l.ProductID, l.Code, l.ReceivedAt, l.ExpiresAt, l.UnitCost)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lote: %w", err)
	}
	return nil
}

func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	return scanLot(r.q.QueryRow(ctx, `SELECT `+lotColumns+` FROM lotes WHERE id = $1`, id))
}

func (r *LotRepo) GetByCode(ctx context.Context, code string) (*entity.Lot, error) {
	return scanLot(r.q.QueryRow(ctx, `SELECT `+lotColumns+` FROM lotes WHERE codigo_lote = $1`, code))
}

func (r *LotRepo) List(ctx context.Context, limit, offset int) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+lotColumns+` FROM lotes ORDER BY fecha_caducidad LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LotRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM lotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lote: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
