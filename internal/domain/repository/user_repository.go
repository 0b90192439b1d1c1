package repository

import (
	"context"

	"github.com/mercamax/mercamax-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error

	// ListByRoles devuelve los usuarios activos cuyo rol está en la lista.
	// Es la consulta de audiencia del generador de alertas.
	ListByRoles(ctx context.Context, roles []string) ([]*entity.User, error)

	Delete(ctx context.Context, id string) error
}

// TrustedDeviceRepository define el puerto para dispositivos confiables (2FA).
type TrustedDeviceRepository interface {
	Create(ctx context.Context, device *entity.TrustedDevice) error
	GetByUserAndToken(ctx context.Context, userID, token string) (*entity.TrustedDevice, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
