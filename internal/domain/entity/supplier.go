package entity

import "time"

// Supplier representa un proveedor de productos del supermercado.
type Supplier struct {
	ID          string
	Name        string // único
	ContactName string
	Phone       string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
