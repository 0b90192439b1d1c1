package dto

import "github.com/shopspring/decimal"

// LowStockAlertResponse producto en o bajo su punto de reorden.
type LowStockAlertResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	StockMinimo int64  `json:"stock_minimo"`
	StockTotal  int64  `json:"stock_total"`
	Mensaje     string `json:"mensaje"`
}

// ExpiringLotResponse lote próximo a vencer con stock restante.
type ExpiringLotResponse struct {
	LoteID         string `json:"id_lote"`
	CodigoLote     string `json:"codigo_lote"`
	ProductoNombre string `json:"producto_nombre"`
	FechaCaducidad string `json:"fecha_caducidad"` // YYYY-MM-DD
	StockRestante  int64  `json:"stock_restante_lote"`
	DiasParaVencer int    `json:"dias_para_vencer"`
}

// ProductValuationResponse valoración de un producto con stock.
type ProductValuationResponse struct {
	ProductoID     string          `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	StockTotal     int64           `json:"stock_total"`
	CostoPromedio  decimal.Decimal `json:"costo_promedio_ponderado"`
	ValorTotal     decimal.Decimal `json:"valor_total_producto"`
}

// ValuationReportResponse reporte de valoración del inventario.
type ValuationReportResponse struct {
	ValorTotalInventario decimal.Decimal            `json:"valor_total_inventario"`
	DetalleProductos     []ProductValuationResponse `json:"detalle_productos"`
}

// TurnoverReportResponse reporte de rotación de inventario.
// MetodoAproximado siempre es true: el costo de ventas usa el subtotal de
// venta (un ingreso) y el inventario promedio usa la valoración actual, no
// una serie histórica. Métrica orientativa, no contable.
type TurnoverReportResponse struct {
	PeriodoInicio       string          `json:"periodo_inicio"` // YYYY-MM-DD
	PeriodoFin          string          `json:"periodo_fin"`
	CostoDeVentas       decimal.Decimal `json:"costo_de_ventas"`
	InventarioPromedio  decimal.Decimal `json:"inventario_promedio_estimado"`
	Rotacion            decimal.Decimal `json:"rotacion_de_inventario"`
	ObjetivoMetrica     string          `json:"objetivo_metrica"`
	MetodoAproximado    bool            `json:"metodo_aproximado"`
}

// AlertRunResponse resultado de una corrida del generador de alertas.
// Los contadores son condiciones evaluadas, no notificaciones creadas.
type AlertRunResponse struct {
	LowStockCount        int `json:"low_stock_count"`
	ExpiringLotCount     int `json:"expiring_lot_count"`
	NotificationsCreated int `json:"notifications_created"`
}

// NotificationResponse una notificación del usuario.
type NotificationResponse struct {
	ID            string `json:"id"`
	Tipo          string `json:"tipo"`
	Mensaje       string `json:"mensaje"`
	Leida         bool   `json:"leida"`
	FechaCreacion string `json:"fecha_creacion"`
}
