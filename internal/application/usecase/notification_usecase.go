package usecase

import (
	"context"
	"time"

	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
)

// NotificationUseCase expone las notificaciones del usuario autenticado.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
}

func NewNotificationUseCase(notifications repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifications: notifications}
}

// ListByUser devuelve las notificaciones del usuario, más recientes primero.
func (uc *NotificationUseCase) ListByUser(ctx context.Context, userID string, page dto.PageRequest) ([]dto.NotificationResponse, error) {
	page.DefaultPage()
	notifications, err := uc.notifications.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, dto.NotificationResponse{
			ID:            n.ID,
			Tipo:          n.Type,
			Mensaje:       n.Message,
			Leida:         n.Read,
			FechaCreacion: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// MarkRead marca como leída una notificación del usuario. Leída, el mismo
// mensaje puede volver a generarse en la siguiente corrida de alertas.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id, userID string) error {
	return uc.notifications.MarkRead(ctx, id, userID)
}
