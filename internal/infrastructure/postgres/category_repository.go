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

var _ repository.ProductCategoryRepository = (*ProductCategoryRepo)(nil)

// ProductCategoryRepo implementación del puerto ProductCategoryRepository.
type ProductCategoryRepo struct {
	q Querier
}

func NewProductCategoryRepository(q Querier) *ProductCategoryRepo {
	return &ProductCategoryRepo{q: q}
}

func (r *ProductCategoryRepo) Create(ctx context.Context, c *entity.ProductCategory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categorias_producto (id, nombre, created_at) VALUES ($1, $2, now())`,
		c.ID, c.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert categoria de producto: %w", err)
	}
	return nil
}

func (r *ProductCategoryRepo) GetByID(ctx context.Context, id string) (*entity.ProductCategory, error) {
	var c entity.ProductCategory
	err := r.q.QueryRow(ctx,
		`SELECT id, nombre, created_at FROM categorias_producto WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get categoria de producto: %w", err)
	}
	return &c, nil
}

func (r *ProductCategoryRepo) List(ctx context.Context) ([]*entity.ProductCategory, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, nombre, created_at FROM categorias_producto ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list categorias de producto: %w", err)
	}
	defer rows.Close()

	var out []*entity.ProductCategory
	for rows.Next() {
		var c entity.ProductCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan categoria de producto: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *ProductCategoryRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM categorias_producto WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete categoria de producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
