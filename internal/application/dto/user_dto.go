package dto

import "time"

// LoginRequest credenciales de login. Rol obligatorio: el usuario elige con
// qué rol entra y debe corresponder con el asignado. DeviceToken opcional
// omite el 2FA si el dispositivo sigue siendo confiable.
type LoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Rol         string `json:"rol"`
	DeviceToken string `json:"device_token"`
}

// LoginResponse respuesta de login. Con 2FA pendiente: Step="2fa_required" y
// Token temporal. Con dispositivo confiable: token de sesión directo.
type LoginResponse struct {
	Step     string `json:"step,omitempty"` // "2fa_required" cuando falta el código
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	Rol      string `json:"rol,omitempty"`
	Trusted  bool   `json:"trusted"`
}

// Verify2FARequest código del segundo factor.
type Verify2FARequest struct {
	Code           string `json:"code"`
	RememberDevice bool   `json:"rememberDevice"`
}

// Verify2FAResponse token de sesión tras el 2FA.
type Verify2FAResponse struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	Rol         string `json:"rol"`
	Trusted     bool   `json:"trusted"`
	DeviceToken string `json:"device_token,omitempty"`
}

// InviteUserRequest datos para invitar a un usuario nuevo (solo admin).
type InviteUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Rol       string `json:"rol"`
}

// ActivateAccountRequest activación de cuenta desde el enlace del correo.
type ActivateAccountRequest struct {
	UID       string `json:"uid"`
	Token     string `json:"token"`
	Username  string `json:"username"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

// ValidateTokenRequest valida un enlace de activación/reset sin consumirlo.
type ValidateTokenRequest struct {
	UID   string `json:"uid"`
	Token string `json:"token"`
}

// ValidateTokenResponse datos del usuario dueño del enlace.
type ValidateTokenResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// PasswordResetRequest solicita el correo de restablecimiento.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest confirma el restablecimiento con el token.
type PasswordResetConfirmRequest struct {
	UID          string `json:"uid"`
	Token        string `json:"token"`
	NewPassword1 string `json:"new_password1"`
	NewPassword2 string `json:"new_password2"`
}

// RolResponse un rol disponible con su etiqueta para el frontend.
type RolResponse struct {
	Value     string `json:"value"`
	ViewValue string `json:"view_value"`
}

// UserResponse representación pública de un usuario.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Rol       string    `json:"rol"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
