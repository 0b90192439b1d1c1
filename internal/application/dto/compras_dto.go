package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest alta de orden de compra con sus líneas.
type CreatePurchaseOrderRequest struct {
	ProveedorID string                       `json:"proveedor"`
	Detalles    []PurchaseOrderDetailRequest `json:"detalles"`
}

// PurchaseOrderDetailRequest una línea de la orden.
type PurchaseOrderDetailRequest struct {
	ProductoID         string          `json:"producto"`
	CantidadSolicitada int64           `json:"cantidad_solicitada"`
	CostoUnitario      decimal.Decimal `json:"costo_unitario"`
}

// ReceivePurchaseOrderRequest recepción: fechas de caducidad por producto
// para los lotes que se crearán (clave: producto, valor: YYYY-MM-DD).
type ReceivePurchaseOrderRequest struct {
	FechasCaducidad map[string]string `json:"fechas_caducidad"`
}

// PurchaseOrderResponse representación de una orden de compra.
type PurchaseOrderResponse struct {
	ID             string                        `json:"id"`
	ProveedorID    string                        `json:"proveedor"`
	Estado         string                        `json:"estado"`
	FechaCreacion  time.Time                     `json:"fecha_creacion"`
	FechaRecepcion *time.Time                    `json:"fecha_recepcion,omitempty"`
	Detalles       []PurchaseOrderDetailResponse `json:"detalles"`
}

// PurchaseOrderDetailResponse una línea de la orden.
type PurchaseOrderDetailResponse struct {
	ID                 string          `json:"id"`
	ProductoID         string          `json:"producto"`
	CantidadSolicitada int64           `json:"cantidad_solicitada"`
	CostoUnitario      decimal.Decimal `json:"costo_unitario"`
}

// CreateSaleRequest registro de una venta con sus líneas; los subtotales y
// el total se calculan en el servidor con el precio vigente del producto.
type CreateSaleRequest struct {
	Detalles []SaleDetailRequest `json:"detalles"`
}

// SaleDetailRequest una línea de venta.
type SaleDetailRequest struct {
	ProductoID string `json:"producto"`
	Cantidad   int64  `json:"cantidad"`
}

// SaleResponse representación de una venta.
type SaleResponse struct {
	ID       string               `json:"id"`
	CajeroID string               `json:"cajero"`
	Fecha    time.Time            `json:"fecha_hora"`
	Total    decimal.Decimal      `json:"total"`
	Detalles []SaleDetailResponse `json:"detalles"`
}

// SaleDetailResponse una línea de venta con precio y subtotal congelados.
type SaleDetailResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto"`
	Cantidad       int64           `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}
