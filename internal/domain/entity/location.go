package entity

import "time"

// Tipos de ubicación física.
const (
	LocationTypeWarehouse      = "BODEGA"  // bodega general, no admite stock directo
	LocationTypeWarehouseShelf = "EST_BOD" // estante de bodega
	LocationTypeStoreShelf     = "EST_TDA" // estante de tienda
)

// LocationTypes lista los tipos válidos con su etiqueta legible.
var LocationTypes = []struct {
	Value string
	Label string
}{
	{LocationTypeWarehouse, "Bodega"},
	{LocationTypeWarehouseShelf, "Estante de Bodega"},
	{LocationTypeStoreShelf, "Estante de Tienda"},
}

// LocationCategory restringe qué categoría de productos admite una ubicación
// (ej: un estante refrigerado solo admite productos "Refrigerados").
type LocationCategory struct {
	ID          string
	Name        string // único
	Description string
	CreatedAt   time.Time
}

// Location representa una ubicación física (bodega o estante).
// Capacity en unidades; nil = sin límite. ParentID arma el árbol bodega → estantes.
type Location struct {
	ID         string
	Name       string // único
	Type       string // ver constantes LocationType*
	CategoryID string // vacío = admite cualquier categoría
	Capacity   *int64
	ParentID   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
