// Package auth implementa autenticación con segundo factor por correo:
// login con contraseña y rol, código TOTP enviado por email, dispositivos
// confiables que omiten el 2FA, invitación y activación de cuentas y
// restablecimiento de contraseña.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
	"github.com/mercamax/mercamax-api/pkg/jwt"
	"github.com/mercamax/mercamax-api/pkg/logger"
	"github.com/mercamax/mercamax-api/pkg/otp"
)

// Alcances de los tokens de un solo uso enviados por correo.
const (
	scopeActivate = "activate"
	scopeReset    = "password-reset"
)

// Vigencia de los enlaces enviados por correo, en minutos.
const (
	activateExpMinutes = 3 * 24 * 60
	resetExpMinutes    = 60
)

// Mailer es el puerto de envío de correos transaccionales.
// La implementación vive en infrastructure/mail.
type Mailer interface {
	SendOTP(ctx context.Context, to, name, code string) error
	SendInvite(ctx context.Context, to, name, link string) error
	SendPasswordReset(ctx context.Context, to, name, link string) error
}

// Config parámetros del caso de uso de auth.
type Config struct {
	JWTSecret         string
	JWTIssuer         string
	SessionMinutes    int // vigencia del token de sesión
	TempMinutes       int // vigencia del token temporal de 2FA
	FrontendURL       string
	TrustedDeviceDays int
}

// UseCase casos de uso de autenticación.
type UseCase struct {
	users   repository.UserRepository
	devices repository.TrustedDeviceRepository
	mailer  Mailer
	cfg     Config
	log     *logger.Logger
	now     func() time.Time
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(
	users repository.UserRepository,
	devices repository.TrustedDeviceRepository,
	mailer Mailer,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	if cfg.TrustedDeviceDays <= 0 {
		cfg.TrustedDeviceDays = 30
	}
	return &UseCase{users: users, devices: devices, mailer: mailer, cfg: cfg, log: log, now: time.Now}
}

// WithClock fija el reloj (para tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Login verifica credenciales y rol. Con un dispositivo confiable vigente
// emite la sesión directamente; si no, envía el código TOTP por correo y
// devuelve un token temporal que solo sirve para verify-2fa.
func (uc *UseCase) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrAccountInactive
	}
	if req.Rol != user.Role {
		return nil, domain.ErrRoleMismatch
	}

	// Dispositivo confiable vigente: sesión directa, sin 2FA.
	if req.DeviceToken != "" {
		device, err := uc.devices.GetByUserAndToken(ctx, user.ID, req.DeviceToken)
		if err == nil && device.IsValid(uc.now()) {
			token, err := uc.sessionToken(user)
			if err != nil {
				return nil, err
			}
			return &dto.LoginResponse{
				Token:    token,
				Username: user.Name,
				Rol:      user.Role,
				Trusted:  true,
			}, nil
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	// Segundo factor: código TOTP al correo y token temporal.
	if user.OTPSecret == "" {
		secret, err := otp.NewSecret()
		if err != nil {
			return nil, err
		}
		user.OTPSecret = secret
		if err := uc.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	code, err := otp.Generate(user.OTPSecret, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.mailer.SendOTP(ctx, user.Email, user.Name, code); err != nil {
		return nil, fmt.Errorf("enviar código de verificación: %w", err)
	}

	temp, err := jwt.Generate(uc.cfg.JWTSecret, user.ID, user.Role, jwt.Scope2FA, uc.cfg.JWTIssuer, uc.cfg.TempMinutes)
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("usuario", user.ID).Msg("código 2FA enviado")
	return &dto.LoginResponse{Step: "2fa_required", Token: temp}, nil
}

// Verify2FA valida el código TOTP del usuario (identificado por el token
// temporal) y emite la sesión. Con rememberDevice crea un dispositivo
// confiable que omite el 2FA en los próximos logins.
func (uc *UseCase) Verify2FA(ctx context.Context, userID string, req dto.Verify2FARequest) (*dto.Verify2FAResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.OTPSecret == "" || !otp.Verify(user.OTPSecret, req.Code, uc.now()) {
		return nil, domain.ErrInvalidOTP
	}

	token, err := uc.sessionToken(user)
	if err != nil {
		return nil, err
	}
	resp := &dto.Verify2FAResponse{
		Token:    token,
		Username: user.Name,
		Rol:      user.Role,
	}

	if req.RememberDevice {
		device := &entity.TrustedDevice{
			ID:          uuid.New().String(),
			UserID:      user.ID,
			DeviceToken: uuid.New().String(),
			CreatedAt:   uc.now(),
			ExpiresAt:   uc.now().AddDate(0, 0, uc.cfg.TrustedDeviceDays),
		}
		if err := uc.devices.Create(ctx, device); err != nil {
			return nil, err
		}
		resp.Trusted = true
		resp.DeviceToken = device.DeviceToken
	}

	uc.log.Info().Str("usuario", user.ID).Bool("dispositivo_confiable", resp.Trusted).
		Msg("2FA verificado")
	return resp, nil
}

// Invite crea un usuario inactivo y le envía el enlace de activación.
func (uc *UseCase) Invite(ctx context.Context, req dto.InviteUserRequest) (*dto.UserResponse, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("%w: el email es obligatorio", domain.ErrInvalidInput)
	}
	if !validRole(req.Rol) {
		return nil, fmt.Errorf("%w: rol desconocido: %s", domain.ErrInvalidInput, req.Rol)
	}
	if existing, err := uc.users.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	secret, err := otp.NewSecret()
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:        uuid.New().String(),
		Email:     req.Email,
		Name:      req.FirstName,
		Role:      req.Rol,
		Active:    false,
		OTPSecret: secret,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.cfg.JWTSecret, user.ID, user.Role, scopeActivate, uc.cfg.JWTIssuer, activateExpMinutes)
	if err != nil {
		return nil, err
	}
	link := fmt.Sprintf("%s/activate?uid=%s&token=%s", uc.cfg.FrontendURL, user.ID, token)
	if err := uc.mailer.SendInvite(ctx, user.Email, user.Name, link); err != nil {
		return nil, fmt.Errorf("enviar invitación: %w", err)
	}

	uc.log.Info().Str("usuario", user.ID).Str("rol", user.Role).Msg("usuario invitado")
	return toUserResponse(user), nil
}

// Activate consume el enlace de activación: fija nombre de usuario y
// contraseña y activa la cuenta.
func (uc *UseCase) Activate(ctx context.Context, req dto.ActivateAccountRequest) error {
	if req.Password1 != req.Password2 {
		return fmt.Errorf("%w: las contraseñas no coinciden", domain.ErrInvalidInput)
	}
	if len(req.Password1) < 8 {
		return fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	user, err := uc.userFromToken(ctx, req.UID, req.Token, scopeActivate)
	if err != nil {
		return err
	}
	if user.Active {
		return fmt.Errorf("%w: la cuenta ya está activada", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if req.Username != "" {
		user.Name = req.Username
	}
	user.PasswordHash = string(hash)
	user.Active = true
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}

	uc.log.Info().Str("usuario", user.ID).Msg("cuenta activada")
	return nil
}

// ValidateToken valida un enlace de activación o de reset sin consumirlo y
// devuelve a quién pertenece (para precargar el formulario del frontend).
func (uc *UseCase) ValidateToken(ctx context.Context, req dto.ValidateTokenRequest) (*dto.ValidateTokenResponse, error) {
	user, err := uc.userFromToken(ctx, req.UID, req.Token, "")
	if err != nil {
		return nil, err
	}
	return &dto.ValidateTokenResponse{Email: user.Email, Username: user.Name}, nil
}

// RequestPasswordReset envía el enlace de restablecimiento. Si el email no
// existe responde igual que si existiera: no revelamos qué cuentas hay.
func (uc *UseCase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if !user.Active {
		return nil
	}

	token, err := jwt.Generate(uc.cfg.JWTSecret, user.ID, user.Role, scopeReset, uc.cfg.JWTIssuer, resetExpMinutes)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/password-reset?uid=%s&token=%s", uc.cfg.FrontendURL, user.ID, token)
	if err := uc.mailer.SendPasswordReset(ctx, user.Email, user.Name, link); err != nil {
		return fmt.Errorf("enviar restablecimiento: %w", err)
	}

	uc.log.Info().Str("usuario", user.ID).Msg("restablecimiento de contraseña solicitado")
	return nil
}

// ConfirmPasswordReset consume el enlace de reset y cambia la contraseña.
func (uc *UseCase) ConfirmPasswordReset(ctx context.Context, req dto.PasswordResetConfirmRequest) error {
	if req.NewPassword1 != req.NewPassword2 {
		return fmt.Errorf("%w: las contraseñas no coinciden", domain.ErrInvalidInput)
	}
	if len(req.NewPassword1) < 8 {
		return fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	user, err := uc.userFromToken(ctx, req.UID, req.Token, scopeReset)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword1), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}

	uc.log.Info().Str("usuario", user.ID).Msg("contraseña restablecida")
	return nil
}

// Me devuelve el usuario autenticado.
func (uc *UseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Roles devuelve los roles disponibles con su etiqueta.
func (uc *UseCase) Roles() []dto.RolResponse {
	out := make([]dto.RolResponse, 0, len(entity.Roles))
	for _, r := range entity.Roles {
		out = append(out, dto.RolResponse{Value: r.Value, ViewValue: r.Label})
	}
	return out
}

// userFromToken valida el token firmado de un enlace de correo y devuelve a
// su dueño. wantScope vacío acepta cualquiera de los dos alcances de enlace.
func (uc *UseCase) userFromToken(ctx context.Context, uid, token, wantScope string) (*entity.User, error) {
	userID, _, scope, err := jwt.Parse(uc.cfg.JWTSecret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	switch {
	case wantScope != "" && scope != wantScope:
		return nil, domain.ErrUnauthorized
	case wantScope == "" && scope != scopeActivate && scope != scopeReset:
		return nil, domain.ErrUnauthorized
	case userID != uid:
		return nil, domain.ErrUnauthorized
	}
	return uc.users.GetByID(ctx, userID)
}

func (uc *UseCase) sessionToken(user *entity.User) (string, error) {
	return jwt.Generate(uc.cfg.JWTSecret, user.ID, user.Role, jwt.ScopeSession, uc.cfg.JWTIssuer, uc.cfg.SessionMinutes)
}

func validRole(role string) bool {
	for _, r := range entity.Roles {
		if r.Value == role {
			return true
		}
	}
	return false
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Rol:       u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
