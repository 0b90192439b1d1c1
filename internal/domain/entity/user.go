package entity

import "time"

// Roles válidos para User.
const (
	RoleCashier          = "CAJERO"
	RoleInventoryManager = "ENCARGADO_INVENTARIO"
	RolePurchasingManager = "GERENTE_COMPRAS"
	RoleStoreManager     = "GERENTE_SUPERMERCADO"
)

// Roles lista los roles con su etiqueta legible (para el frontend).
var Roles = []struct {
	Value string
	Label string
}{
	{RoleCashier, "Cajero"},
	{RoleInventoryManager, "Encargado de Inventario"},
	{RolePurchasingManager, "Gerente de Compras"},
	{RoleStoreManager, "Gerente del Supermercado"},
}

// User representa un usuario del sistema.
// Un usuario invitado nace inactivo y sin contraseña; se activa con el
// enlace enviado por correo. OTPSecret es el secreto TOTP del 2FA por email.
type User struct {
	ID           string
	Email        string // único
	PasswordHash string // bcrypt; vacío mientras la cuenta no esté activada
	Name         string
	Role         string
	Active       bool
	OTPSecret    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TrustedDevice representa un dispositivo recordado tras un 2FA exitoso:
// mientras no expire, el login desde ese dispositivo omite el 2FA.
type TrustedDevice struct {
	ID          string
	UserID      string
	DeviceToken string // único
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// IsValid indica si el dispositivo sigue vigente.
func (d *TrustedDevice) IsValid(now time.Time) bool {
	return now.Before(d.ExpiresAt)
}
