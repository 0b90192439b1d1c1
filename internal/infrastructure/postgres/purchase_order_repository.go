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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementa PurchaseOrderRepository sobre las tablas
// ordenes_compra y detalles_orden_compra. La atomicidad orden+detalles la
// garantiza el TxRunner: este repo asume que q ya es la transacción.
type PurchaseOrderRepo struct {
	q Querier
}

func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, order *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ordenes_compra (id, proveedor_id, estado, created_at, received_at)
		VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.SupplierID, order.Status, order.CreatedAt, order.ReceivedAt)
	if err != nil {
		return fmt.Errorf("crear orden de compra: %w", err)
	}
	for i := range order.Details {
		d := &order.Details[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO detalles_orden_compra (id, orden_id, producto_id, cantidad, costo_unitario)
			VALUES ($1, $2, $3, $4, $5)`,
			d.ID, d.OrderID, d.ProductID, d.Quantity, d.UnitCost)
		if err != nil {
			return fmt.Errorf("crear detalle de orden: %w", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	err := r.q.QueryRow(ctx, `
		SELECT id, proveedor_id, estado, created_at, received_at
		FROM ordenes_compra WHERE id = $1`, id).
		Scan(&o.ID, &o.SupplierID, &o.Status, &o.CreatedAt, &o.ReceivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("buscar orden de compra: %w", err)
	}
	details, err := r.detailsFor(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Details = details
	return &o, nil
}

func (r *PurchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, proveedor_id, estado, created_at, received_at
		FROM ordenes_compra
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar ordenes de compra: %w", err)
	}
	defer rows.Close()

	var out []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		if err := rows.Scan(&o.ID, &o.SupplierID, &o.Status, &o.CreatedAt, &o.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan orden de compra: %w", err)
		}
		out = append(out, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range out {
		details, err := r.detailsFor(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Details = details
	}
	return out, nil
}

func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, order *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE ordenes_compra SET estado = $2, received_at = $3 WHERE id = $1`,
		order.ID, order.Status, order.ReceivedAt)
	if err != nil {
		return fmt.Errorf("actualizar estado de orden: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderRepo) detailsFor(ctx context.Context, orderID string) ([]entity.PurchaseOrderDetail, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, orden_id, producto_id, cantidad, costo_unitario
		FROM detalles_orden_compra
		WHERE orden_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("detalles de orden: %w", err)
	}
	defer rows.Close()

	var out []entity.PurchaseOrderDetail
	for rows.Next() {
		var d entity.PurchaseOrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity, &d.UnitCost); err != nil {
			return nil, fmt.Errorf("scan detalle de orden: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
