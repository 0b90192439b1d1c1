package dto

import "github.com/shopspring/decimal"

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	Nombre       string          `json:"nombre"`
	CodigoBarras string          `json:"codigo_barras"`
	Descripcion  string          `json:"descripcion"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	StockMinimo  int64           `json:"stock_minimo"`
	CategoriaID  string          `json:"categoria"`
	ProveedorID  string          `json:"proveedor"`
}

// UpdateProductRequest actualización parcial de producto.
type UpdateProductRequest struct {
	Nombre      *string          `json:"nombre"`
	Descripcion *string          `json:"descripcion"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"`
	StockMinimo *int64           `json:"stock_minimo"`
	CategoriaID *string          `json:"categoria"`
	ProveedorID *string          `json:"proveedor"`
}

// ProductResponse producto con sus atributos derivados: el stock total y el
// costo promedio ponderado se calculan al leer, nunca se almacenan.
type ProductResponse struct {
	ID              string          `json:"id"`
	Nombre          string          `json:"nombre"`
	CodigoBarras    string          `json:"codigo_barras"`
	Descripcion     string          `json:"descripcion"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	StockMinimo     int64           `json:"stock_minimo"`
	CategoriaID     string          `json:"categoria,omitempty"`
	CategoriaNombre string          `json:"categoria_nombre,omitempty"`
	ProveedorID     string          `json:"proveedor"`
	StockTotal      int64           `json:"stock_total"`
	CostoPromedio   decimal.Decimal `json:"costo_promedio_ponderado"` // redondeado a 2 decimales
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Nombre         string `json:"nombre"`
	ContactoNombre string `json:"contacto_nombre"`
	Telefono       string `json:"telefono"`
	Email          string `json:"email"`
}

// SupplierResponse representación de un proveedor.
type SupplierResponse struct {
	ID             string `json:"id"`
	Nombre         string `json:"nombre"`
	ContactoNombre string `json:"contacto_nombre"`
	Telefono       string `json:"telefono"`
	Email          string `json:"email"`
}

// CategoryResponse categoría de productos.
type CategoryResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// StockDetailResponse una fila del desglose de stock de un producto.
type StockDetailResponse struct {
	UbicacionNombre string `json:"ubicacion_nombre"`
	LoteCodigo      string `json:"lote_codigo"`
	FechaCaducidad  string `json:"fecha_caducidad"` // YYYY-MM-DD
	Cantidad        int64  `json:"cantidad"`
}

// InventoryStatsResponse estadísticas generales del inventario.
type InventoryStatsResponse struct {
	ValorEnStock     decimal.Decimal `json:"valor_en_stock"`
	CostoDeStock     decimal.Decimal `json:"costo_de_stock"`
	GananciaEstimada decimal.Decimal `json:"ganancia_estimada"`
	TotalProductos   int64           `json:"total_productos"`
}
