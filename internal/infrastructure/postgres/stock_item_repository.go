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

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación del puerto StockItemRepository sobre
// PostgreSQL. La unicidad del par (lote, ubicación) la garantiza un índice
// único; Upsert resuelve la carrera crear-vs-crear actualizando la cantidad.
type StockItemRepo struct {
	q Querier
}

func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const stockItemColumns = `id, lote_id, ubicacion_id, cantidad, created_at, updated_at`

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var it entity.StockItem
	err := row.Scan(&it.ID, &it.LotID, &it.LocationID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan stock item: %w", err)
	}
	return &it, nil
}

// Upsert crea el stock item o, si el par (lote, ubicación) ya existe,
// actualiza su cantidad.
func (r *StockItemRepo) Upsert(ctx context.Context, it *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, lote_id, ubicacion_id, cantidad, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (lote_id, ubicacion_id)
		DO UPDATE SET cantidad = EXCLUDED.cantidad, updated_at = now()`
	_, err := r.q.Exec(ctx, query, it.ID, it.LotID, it.LocationID, it.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock item: %w", err)
	}
	return nil
}

func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	return scanStockItem(r.q.QueryRow(ctx,
		`SELECT `+stockItemColumns+` FROM stock_items WHERE id = $1`, id))
}

func (r *StockItemRepo) GetByLotAndLocation(ctx context.Context, lotID, locationID string) (*entity.StockItem, error) {
	return scanStockItem(r.q.QueryRow(ctx,
		`SELECT `+stockItemColumns+` FROM stock_items WHERE lote_id = $1 AND ubicacion_id = $2`,
		lotID, locationID))
}

func (r *StockItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+stockItemColumns+` FROM stock_items ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockItem
	for rows.Next() {
		it, err := scanStockItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *StockItemRepo) UpdateQuantity(ctx context.Context, id string, quantity int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_items SET cantidad = $2, updated_at = now() WHERE id = $1`,
		id, quantity)
	if err != nil {
		return fmt.Errorf("update cantidad de stock item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockItemRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación del puerto AdjustmentRepository (auditoría
// de ajustes de inventario).
type AdjustmentRepo struct {
	q Querier
}

func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

func (r *AdjustmentRepo) Create(ctx context.Context, adj *entity.InventoryAdjustment) error {
	query := `
		INSERT INTO ajustes_inventario (id, stock_item_id, cantidad_anterior, cantidad_nueva, motivo, notas, usuario_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`
	_, err := r.q.Exec(ctx, query,
		adj.ID, adj.StockItemID, adj.PreviousQty, adj.NewQty, adj.Reason, adj.Notes, adj.UserID)
	if err != nil {
		return fmt.Errorf("insert ajuste: %w", err)
	}
	return nil
}

func (r *AdjustmentRepo) ListByStockItem(ctx context.Context, stockItemID string) ([]*entity.InventoryAdjustment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, stock_item_id, cantidad_anterior, cantidad_nueva, motivo, notas, usuario_id, created_at
		FROM ajustes_inventario WHERE stock_item_id = $1 ORDER BY created_at DESC`, stockItemID)
	if err != nil {
		return nil, fmt.Errorf("list ajustes: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryAdjustment
	for rows.Next() {
		var a entity.InventoryAdjustment
		if err := rows.Scan(&a.ID, &a.StockItemID, &a.PreviousQty, &a.NewQty, &a.Reason, &a.Notes, &a.UserID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ajuste: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
