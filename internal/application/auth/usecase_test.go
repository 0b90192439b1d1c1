package auth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/pkg/logger"
	"github.com/mercamax/mercamax-api/pkg/otp"
)

// ── Fakes ───────────────────────────────────────────────────────────────────

type fakeUsers struct {
	byID map[string]*entity.User
}

func newFakeUsers(users ...*entity.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[string]*entity.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) Update(_ context.Context, u *entity.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) ListByRoles(context.Context, []string) ([]*entity.User, error) { return nil, nil }
func (f *fakeUsers) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

type fakeDevices struct {
	devices []*entity.TrustedDevice
}

func (f *fakeDevices) Create(_ context.Context, d *entity.TrustedDevice) error {
	f.devices = append(f.devices, d)
	return nil
}

func (f *fakeDevices) GetByUserAndToken(_ context.Context, userID, token string) (*entity.TrustedDevice, error) {
	for _, d := range f.devices {
		if d.UserID == userID && d.DeviceToken == token {
			return d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDevices) DeleteExpired(context.Context) (int64, error) { return 0, nil }

type sentMail struct {
	kind string // otp, invite, reset
	to   string
	body string // código o enlace
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) SendOTP(_ context.Context, to, _, code string) error {
	f.sent = append(f.sent, sentMail{kind: "otp", to: to, body: code})
	return nil
}

func (f *fakeMailer) SendInvite(_ context.Context, to, _, link string) error {
	f.sent = append(f.sent, sentMail{kind: "invite", to: to, body: link})
	return nil
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, to, _, link string) error {
	f.sent = append(f.sent, sentMail{kind: "reset", to: to, body: link})
	return nil
}

// ── Helpers ─────────────────────────────────────────────────────────────────

var authNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func activeUser(t *testing.T) *entity.User {
	t.Helper()
	secret, err := otp.NewSecret()
	require.NoError(t, err)
	return &entity.User{
		ID:           "u1",
		Email:        "gerente@mercamax.local",
		PasswordHash: hashOf(t, "secreta123"),
		Name:         "Marcela",
		Role:         entity.RoleStoreManager,
		Active:       true,
		OTPSecret:    secret,
	}
}

func newTestAuth(users *fakeUsers, devices *fakeDevices, mailer *fakeMailer) *UseCase {
	cfg := Config{
		JWTSecret:         "clave-de-prueba",
		JWTIssuer:         "mercamax",
		SessionMinutes:    480,
		TempMinutes:       10,
		FrontendURL:       "http://localhost:4200",
		TrustedDeviceDays: 30,
	}
	uc := NewUseCase(users, devices, mailer, cfg, logger.NewNop())
	return uc.WithClock(func() time.Time { return authNow })
}

func linkParams(t *testing.T, link string) (uid, token string) {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("uid"), u.Query().Get("token")
}

// ── Login ───────────────────────────────────────────────────────────────────

func TestLogin_CredencialesInvalidas(t *testing.T) {
	user := activeUser(t)
	uc := newTestAuth(newFakeUsers(user), &fakeDevices{}, &fakeMailer{})

	tests := []struct {
		name    string
		req     dto.LoginRequest
		wantErr error
	}{
		{
			"email desconocido",
			dto.LoginRequest{Email: "nadie@mercamax.local", Password: "secreta123", Rol: user.Role},
			domain.ErrUnauthorized,
		},
		{
			"contraseña incorrecta",
			dto.LoginRequest{Email: user.Email, Password: "otra", Rol: user.Role},
			domain.ErrUnauthorized,
		},
		{
			"rol que no corresponde",
			dto.LoginRequest{Email: user.Email, Password: "secreta123", Rol: entity.RoleCashier},
			domain.ErrRoleMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Login(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogin_CuentaInactiva(t *testing.T) {
	user := activeUser(t)
	user.Active = false
	uc := newTestAuth(newFakeUsers(user), &fakeDevices{}, &fakeMailer{})

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: user.Email, Password: "secreta123", Rol: user.Role,
	})
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

func TestLogin_EnviaCodigoYTokenTemporal(t *testing.T) {
	user := activeUser(t)
	mailer := &fakeMailer{}
	uc := newTestAuth(newFakeUsers(user), &fakeDevices{}, mailer)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: user.Email, Password: "secreta123", Rol: user.Role,
	})
	require.NoError(t, err)

	assert.Equal(t, "2fa_required", resp.Step)
	assert.NotEmpty(t, resp.Token)
	assert.False(t, resp.Trusted)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "otp", mailer.sent[0].kind)
	assert.Equal(t, user.Email, mailer.sent[0].to)

	// El código enviado es el TOTP vigente del secreto del usuario.
	want, err := otp.Generate(user.OTPSecret, authNow)
	require.NoError(t, err)
	assert.Equal(t, want, mailer.sent[0].body)
}

func TestLogin_DispositivoConfiableOmiteEl2FA(t *testing.T) {
	user := activeUser(t)
	devices := &fakeDevices{devices: []*entity.TrustedDevice{{
		ID: "d1", UserID: user.ID, DeviceToken: "tok-1",
		ExpiresAt: authNow.AddDate(0, 0, 10),
	}}}
	mailer := &fakeMailer{}
	uc := newTestAuth(newFakeUsers(user), devices, mailer)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: user.Email, Password: "secreta123", Rol: user.Role, DeviceToken: "tok-1",
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Step)
	assert.True(t, resp.Trusted)
	assert.Equal(t, user.Name, resp.Username)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, mailer.sent, "no debe enviar correo con dispositivo confiable")
}

func TestLogin_DispositivoExpiradoVuelveAl2FA(t *testing.T) {
	user := activeUser(t)
	devices := &fakeDevices{devices: []*entity.TrustedDevice{{
		ID: "d1", UserID: user.ID, DeviceToken: "tok-1",
		ExpiresAt: authNow.AddDate(0, 0, -1),
	}}}
	mailer := &fakeMailer{}
	uc := newTestAuth(newFakeUsers(user), devices, mailer)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: user.Email, Password: "secreta123", Rol: user.Role, DeviceToken: "tok-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "2fa_required", resp.Step)
	assert.Len(t, mailer.sent, 1)
}

// ── Verify 2FA ──────────────────────────────────────────────────────────────

func TestVerify2FA_CodigoValido(t *testing.T) {
	user := activeUser(t)
	uc := newTestAuth(newFakeUsers(user), &fakeDevices{}, &fakeMailer{})

	code, err := otp.Generate(user.OTPSecret, authNow)
	require.NoError(t, err)

	resp, err := uc.Verify2FA(context.Background(), user.ID, dto.Verify2FARequest{Code: code})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.Role, resp.Rol)
	assert.False(t, resp.Trusted)
	assert.Empty(t, resp.DeviceToken)
}

func TestVerify2FA_CodigoInvalido(t *testing.T) {
	user := activeUser(t)
	uc := newTestAuth(newFakeUsers(user), &fakeDevices{}, &fakeMailer{})

	current, err := otp.Generate(user.OTPSecret, authNow)
	require.NoError(t, err)
	previous, err := otp.Generate(user.OTPSecret, authNow.Add(-otp.Period*time.Second))
	require.NoError(t, err)

	// Un código de 6 dígitos distinto de los de ambas ventanas válidas.
	wrong := "000000"
	for _, candidate := range []string{"000000", "000001", "000002"} {
		if candidate != current && candidate != previous {
			wrong = candidate
			break
		}
	}

	_, err = uc.Verify2FA(context.Background(), user.ID, dto.Verify2FARequest{Code: wrong})
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
}

func TestVerify2FA_RecordarDispositivo(t *testing.T) {
	user := activeUser(t)
	devices := &fakeDevices{}
	uc := newTestAuth(newFakeUsers(user), devices, &fakeMailer{})

	code, err := otp.Generate(user.OTPSecret, authNow)
	require.NoError(t, err)

	resp, err := uc.Verify2FA(context.Background(), user.ID, dto.Verify2FARequest{
		Code: code, RememberDevice: true,
	})
	require.NoError(t, err)

	assert.True(t, resp.Trusted)
	require.NotEmpty(t, resp.DeviceToken)
	require.Len(t, devices.devices, 1)
	assert.Equal(t, authNow.AddDate(0, 0, 30), devices.devices[0].ExpiresAt)

	// El dispositivo recordado omite el 2FA en el siguiente login.
	login, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: user.Email, Password: "secreta123", Rol: user.Role, DeviceToken: resp.DeviceToken,
	})
	require.NoError(t, err)
	assert.True(t, login.Trusted)
	assert.Empty(t, login.Step)
}

// ── Invitación y activación ─────────────────────────────────────────────────

func TestInvite_CreaUsuarioInactivoYEnviaEnlace(t *testing.T) {
	users := newFakeUsers()
	mailer := &fakeMailer{}
	uc := newTestAuth(users, &fakeDevices{}, mailer)

	resp, err := uc.Invite(context.Background(), dto.InviteUserRequest{
		Email: "nuevo@mercamax.local", FirstName: "Pedro", Rol: entity.RoleInventoryManager,
	})
	require.NoError(t, err)

	assert.False(t, resp.Active)
	assert.Equal(t, entity.RoleInventoryManager, resp.Rol)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "invite", mailer.sent[0].kind)
	assert.True(t, strings.HasPrefix(mailer.sent[0].body, "http://localhost:4200/activate?"))
}

func TestInvite_EmailDuplicado(t *testing.T) {
	user := activeUser(t)
	uc := newTestAuth(newFakeUsers(user), &fakeDevices{}, &fakeMailer{})

	_, err := uc.Invite(context.Background(), dto.InviteUserRequest{
		Email: user.Email, FirstName: "Otro", Rol: entity.RoleCashier,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestInvite_RolDesconocido(t *testing.T) {
	uc := newTestAuth(newFakeUsers(), &fakeDevices{}, &fakeMailer{})

	_, err := uc.Invite(context.Background(), dto.InviteUserRequest{
		Email: "x@mercamax.local", Rol: "SUPERADMIN",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestActivate_FlujoCompleto(t *testing.T) {
	users := newFakeUsers()
	mailer := &fakeMailer{}
	uc := newTestAuth(users, &fakeDevices{}, mailer)

	invited, err := uc.Invite(context.Background(), dto.InviteUserRequest{
		Email: "nuevo@mercamax.local", FirstName: "Pedro", Rol: entity.RoleCashier,
	})
	require.NoError(t, err)

	uid, token := linkParams(t, mailer.sent[0].body)
	assert.Equal(t, invited.ID, uid)

	// El enlace se puede validar sin consumirlo.
	info, err := uc.ValidateToken(context.Background(), dto.ValidateTokenRequest{UID: uid, Token: token})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@mercamax.local", info.Email)

	err = uc.Activate(context.Background(), dto.ActivateAccountRequest{
		UID: uid, Token: token, Username: "pedro",
		Password1: "secreta123", Password2: "secreta123",
	})
	require.NoError(t, err)

	activated, err := users.GetByID(context.Background(), uid)
	require.NoError(t, err)
	assert.True(t, activated.Active)
	assert.Equal(t, "pedro", activated.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(activated.PasswordHash), []byte("secreta123")))

	// Activar dos veces es un conflicto.
	err = uc.Activate(context.Background(), dto.ActivateAccountRequest{
		UID: uid, Token: token, Password1: "secreta123", Password2: "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestActivate_ValidacionesDeContrasena(t *testing.T) {
	uc := newTestAuth(newFakeUsers(), &fakeDevices{}, &fakeMailer{})

	err := uc.Activate(context.Background(), dto.ActivateAccountRequest{
		Password1: "secreta123", Password2: "distinta",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.Activate(context.Background(), dto.ActivateAccountRequest{
		Password1: "corta", Password2: "corta",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestActivate_TokenAjeno(t *testing.T) {
	users := newFakeUsers()
	mailer := &fakeMailer{}
	uc := newTestAuth(users, &fakeDevices{}, mailer)

	_, err := uc.Invite(context.Background(), dto.InviteUserRequest{
		Email: "a@mercamax.local", Rol: entity.RoleCashier,
	})
	require.NoError(t, err)
	_, token := linkParams(t, mailer.sent[0].body)

	// Token válido pero con UID de otro usuario.
	err = uc.Activate(context.Background(), dto.ActivateAccountRequest{
		UID: "otro-usuario", Token: token,
		Password1: "secreta123", Password2: "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ── Restablecimiento de contraseña ──────────────────────────────────────────

func TestPasswordReset_FlujoCompleto(t *testing.T) {
	user := activeUser(t)
	mailer := &fakeMailer{}
	uc := newTestAuth(newFakeUsers(user), &fakeDevices{}, mailer)

	require.NoError(t, uc.RequestPasswordReset(context.Background(), user.Email))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "reset", mailer.sent[0].kind)

	uid, token := linkParams(t, mailer.sent[0].body)
	err := uc.ConfirmPasswordReset(context.Background(), dto.PasswordResetConfirmRequest{
		UID: uid, Token: token,
		NewPassword1: "renovada456", NewPassword2: "renovada456",
	})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("renovada456")))
}

func TestPasswordReset_EmailDesconocidoNoRevelaNada(t *testing.T) {
	mailer := &fakeMailer{}
	uc := newTestAuth(newFakeUsers(), &fakeDevices{}, mailer)

	err := uc.RequestPasswordReset(context.Background(), "nadie@mercamax.local")
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestPasswordReset_TokenDeActivacionNoSirve(t *testing.T) {
	users := newFakeUsers()
	mailer := &fakeMailer{}
	uc := newTestAuth(users, &fakeDevices{}, mailer)

	_, err := uc.Invite(context.Background(), dto.InviteUserRequest{
		Email: "a@mercamax.local", Rol: entity.RoleCashier,
	})
	require.NoError(t, err)
	uid, token := linkParams(t, mailer.sent[0].body)

	err = uc.ConfirmPasswordReset(context.Background(), dto.PasswordResetConfirmRequest{
		UID: uid, Token: token,
		NewPassword1: "renovada456", NewPassword2: "renovada456",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
