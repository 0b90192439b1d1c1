package entity

import "time"

// Tipos de notificación.
const (
	NotificationLowStock    = "STOCK" // stock bajo
	NotificationExpiringLot = "VENCE" // lote por vencer
)

// Notification representa una alerta dirigida a un usuario.
// El texto del mensaje es la clave de deduplicación: nunca se crea una
// segunda notificación con el mismo mensaje para el mismo usuario mientras
// exista una idéntica sin leer.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Message   string
	Read      bool
	CreatedAt time.Time
}
