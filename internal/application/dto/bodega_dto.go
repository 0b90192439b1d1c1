package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLocationRequest alta de ubicación (bodega o estante).
type CreateLocationRequest struct {
	Nombre          string `json:"nombre"`
	Tipo            string `json:"tipo"`
	CategoriaID     string `json:"categoria"`
	CapacidadMaxima *int64 `json:"capacidad_maxima"`
	ParentID        string `json:"parent"`
}

// LocationResponse representación de una ubicación.
type LocationResponse struct {
	ID              string `json:"id"`
	Nombre          string `json:"nombre"`
	Tipo            string `json:"tipo"`
	CategoriaID     string `json:"categoria,omitempty"`
	CategoriaNombre string `json:"categoria_nombre,omitempty"`
	CapacidadMaxima *int64 `json:"capacidad_maxima,omitempty"`
	ParentID        string `json:"parent,omitempty"`
	ParentNombre    string `json:"parent_nombre,omitempty"`
}

// LocationTypeResponse tipo de ubicación disponible.
type LocationTypeResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LocationCategoryRequest alta de categoría de ubicación.
type LocationCategoryRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

// LocationCategoryResponse categoría de ubicación.
type LocationCategoryResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

// CreateLotRequest alta de lote.
type CreateLotRequest struct {
	ProductoID      string          `json:"producto"`
	CodigoLote      string          `json:"codigo_lote"`
	FechaCaducidad  string          `json:"fecha_caducidad"` // YYYY-MM-DD
	CostoCompraLote decimal.Decimal `json:"costo_compra_lote"`
}

// LotResponse representación de un lote.
type LotResponse struct {
	ID              string          `json:"id"`
	ProductoID      string          `json:"producto"`
	CodigoLote      string          `json:"codigo_lote"`
	FechaRecepcion  time.Time       `json:"fecha_recepcion"`
	FechaCaducidad  string          `json:"fecha_caducidad"` // YYYY-MM-DD
	CostoCompraLote decimal.Decimal `json:"costo_compra_lote"`
	StockRestante   int64           `json:"stock_restante"`
}

// PlaceStockRequest crear o actualizar un stock item (colocación de stock).
// Pasa por la validación de capacidad/tipo/categoría antes de escribir.
type PlaceStockRequest struct {
	LoteID      string `json:"lote"`
	UbicacionID string `json:"ubicacion"`
	Cantidad    int64  `json:"cantidad"`
}

// StockItemResponse representación de un stock item.
type StockItemResponse struct {
	ID          string `json:"id"`
	LoteID      string `json:"lote"`
	UbicacionID string `json:"ubicacion"`
	Cantidad    int64  `json:"cantidad"`
}

// AdjustInventoryRequest ajuste manual tras conteo físico.
type AdjustInventoryRequest struct {
	StockItemID     string `json:"stock_item_id"`
	CantidadContada int64  `json:"cantidad_contada"`
	Motivo          string `json:"motivo"`
	Notas           string `json:"notas"`
}
