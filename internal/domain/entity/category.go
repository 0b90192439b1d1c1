package entity

import "time"

// ProductCategory representa una categoría de productos (ej: Refrigerados, Secos).
type ProductCategory struct {
	ID        string
	Name      string // único
	CreatedAt time.Time
}
