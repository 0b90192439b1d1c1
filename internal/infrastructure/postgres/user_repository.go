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

var (
	_ repository.UserRepository          = (*UserRepo)(nil)
	_ repository.TrustedDeviceRepository = (*TrustedDeviceRepo)(nil)
)

const userColumns = `id, email, password_hash, nombre, rol, activo, otp_secret, created_at, updated_at`

// UserRepo implementa UserRepository sobre la tabla usuarios.
type UserRepo struct {
	q Querier
}

func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.Active, &u.OTPSecret, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan usuario: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO usuarios (id, email, password_hash, nombre, rol, activo, otp_secret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.Active, user.OTPSecret)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("crear usuario: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE usuarios
		SET email = $2, password_hash = $3, nombre = $4, rol = $5,
		    activo = $6, otp_secret = $7, updated_at = now()
		WHERE id = $1`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.Active, user.OTPSecret)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("actualizar usuario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) ListByRoles(ctx context.Context, roles []string) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+userColumns+`
		FROM usuarios
		WHERE activo AND rol = ANY($1)
		ORDER BY nombre`, roles)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios por rol: %w", err)
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("eliminar usuario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// TrustedDeviceRepo implementa TrustedDeviceRepository sobre la tabla
// dispositivos_confiables.
type TrustedDeviceRepo struct {
	q Querier
}

func NewTrustedDeviceRepository(q Querier) *TrustedDeviceRepo {
	return &TrustedDeviceRepo{q: q}
}

func (r *TrustedDeviceRepo) Create(ctx context.Context, device *entity.TrustedDevice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO dispositivos_confiables (id, usuario_id, device_token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		device.ID, device.UserID, device.DeviceToken, device.CreatedAt, device.ExpiresAt)
	if err != nil {
		return fmt.Errorf("crear dispositivo confiable: %w", err)
	}
	return nil
}

func (r *TrustedDeviceRepo) GetByUserAndToken(ctx context.Context, userID, token string) (*entity.TrustedDevice, error) {
	var d entity.TrustedDevice
	err := r.q.QueryRow(ctx, `
		SELECT id, usuario_id, device_token, created_at, expires_at
		FROM dispositivos_confiables
		WHERE usuario_id = $1 AND device_token = $2`, userID, token).
		Scan(&d.ID, &d.UserID, &d.DeviceToken, &d.CreatedAt, &d.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("buscar dispositivo confiable: %w", err)
	}
	return &d, nil
}

func (r *TrustedDeviceRepo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM dispositivos_confiables WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("purgar dispositivos vencidos: %w", err)
	}
	return tag.RowsAffected(), nil
}
