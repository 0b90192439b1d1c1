package postgres

import (
	"context"
	"fmt"

	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementa NotificationRepository sobre la tabla
// notificaciones. La deduplicación descansa en el índice único parcial
// (usuario_id, mensaje) WHERE NOT leida del esquema.
type NotificationRepo struct {
	q Querier
}

func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// CreateIfAbsent inserta la notificación. Si el índice único parcial la
// rechaza (ya existe una sin leer con el mismo mensaje para el usuario),
// devuelve (false, nil): dos corridas concurrentes del generador no deben
// duplicar ni fallar.
func (r *NotificationRepo) CreateIfAbsent(ctx context.Context, n *entity.Notification) (bool, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO notificaciones (id, usuario_id, tipo, mensaje, leida, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.UserID, n.Type, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("crear notificacion: %w", err)
	}
	return true, nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, usuario_id, tipo, mensaje, leida, created_at
		FROM notificaciones
		WHERE usuario_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar notificaciones: %w", err)
	}
	defer rows.Close()

	var out []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notificacion: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE notificaciones SET leida = TRUE WHERE id = $1 AND usuario_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("marcar notificacion leida: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
