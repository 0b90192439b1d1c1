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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
// capacidad_maxima NULL significa sin límite; parent_id arma el árbol
// bodega -> estantes.
type LocationRepo struct {
	q Querier
}

func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, nombre, tipo, COALESCE(categoria_id, ''), capacidad_maxima, COALESCE(parent_id, ''), created_at, updated_at`

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	err := row.Scan(
		&l.ID, &l.Name, &l.Type, &l.CategoryID, &l.Capacity, &l.ParentID,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan ubicacion: %w", err)
	}
	return &l, nil
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO ubicaciones (id, nombre, tipo, categoria_id, capacidad_maxima, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), now(), now())`
	_, err := r.q.Exec(ctx, query, l.ID, l.Name, l.Type, l.CategoryID, l.Capacity, l.ParentID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ubicacion: %w", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return scanLocation(r.q.QueryRow(ctx,
		`SELECT `+locationColumns+` FROM ubicaciones WHERE id = $1`, id))
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE ubicaciones
		SET nombre = $2, tipo = $3, categoria_id = NULLIF($4, ''),
		    capacidad_maxima = $5, parent_id = NULLIF($6, ''), updated_at = now()
		WHERE id = $1`,
		l.ID, l.Name, l.Type, l.CategoryID, l.Capacity, l.ParentID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update ubicacion: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+locationColumns+` FROM ubicaciones ORDER BY nombre LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ubicaciones: %w", err)
	}
	defer rows.Close()

	var out []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM ubicaciones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ubicacion: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ repository.LocationCategoryRepository = (*LocationCategoryRepo)(nil)

// LocationCategoryRepo implementación del puerto LocationCategoryRepository.
type LocationCategoryRepo struct {
	q Querier
}

func NewLocationCategoryRepository(q Querier) *LocationCategoryRepo {
	return &LocationCategoryRepo{q: q}
}

func (r *LocationCategoryRepo) Create(ctx context.Context, c *entity.LocationCategory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categorias_ubicacion (id, nombre, descripcion, created_at)
		VALUES ($1, $2, $3, now())`,
		c.ID, c.Name, c.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert categoria de ubicacion: %w", err)
	}
	return nil
}

func (r *LocationCategoryRepo) GetByID(ctx context.Context, id string) (*entity.LocationCategory, error) {
	var c entity.LocationCategory
	err := r.q.QueryRow(ctx,
		`SELECT id, nombre, descripcion, created_at FROM categorias_ubicacion WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get categoria de ubicacion: %w", err)
	}
	return &c, nil
}

func (r *LocationCategoryRepo) List(ctx context.Context) ([]*entity.LocationCategory, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, nombre, descripcion, created_at FROM categorias_ubicacion ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list categorias de ubicacion: %w", err)
	}
	defer rows.Close()

	var out []*entity.LocationCategory
	for rows.Next() {
		var c entity.LocationCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan categoria de ubicacion: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *LocationCategoryRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM categorias_ubicacion WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete categoria de ubicacion: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
