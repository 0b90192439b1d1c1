package repository

import (
	"context"

	"github.com/mercamax/mercamax-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para notificaciones.
type NotificationRepository interface {
	// CreateIfAbsent crea la notificación solo si no existe ya una sin leer
	// con el mismo (usuario, mensaje). Devuelve false si se omitió por
	// duplicada. Las implementaciones deben tratar la violación del índice
	// único parcial como omisión benigna, no como error: dos corridas
	// concurrentes del generador de alertas no deben duplicar ni fallar.
	CreateIfAbsent(ctx context.Context, n *entity.Notification) (created bool, err error)

	// ListByUser devuelve las notificaciones del usuario, más recientes primero.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, error)

	// MarkRead marca como leída una notificación del usuario.
	MarkRead(ctx context.Context, id, userID string) error
}
