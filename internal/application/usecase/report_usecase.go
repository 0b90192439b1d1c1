package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercamax/mercamax-api/internal/application/alerts"
	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
	"github.com/mercamax/mercamax-api/internal/domain/stock"
)

// ValuationPDFGenerator genera el PDF del reporte de valoración.
// La implementación vive en infrastructure/pdf.
type ValuationPDFGenerator interface {
	Generate(report dto.ValuationReportResponse, generatedAt time.Time) ([]byte, error)
}

// ReportUseCase arma los reportes de bodega: valoración del inventario,
// rotación aproximada, stock bajo y lotes por vencer.
type ReportUseCase struct {
	stockQuery repository.StockQueryRepository
	sales      repository.SaleRepository
	pdf        ValuationPDFGenerator
	now        func() time.Time
}

func NewReportUseCase(
	stockQuery repository.StockQueryRepository,
	sales repository.SaleRepository,
	pdf ValuationPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{stockQuery: stockQuery, sales: sales, pdf: pdf, now: time.Now}
}

// WithClock fija el reloj (para tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// Valuation calcula la valoración del inventario a costo promedio ponderado.
// Solo entran productos con stock; los importes se redondean a 2 decimales
// recién aquí, en la frontera de presentación.
func (uc *ReportUseCase) Valuation(ctx context.Context) (*dto.ValuationReportResponse, error) {
	groups, err := uc.stockQuery.ValuationGroups(ctx)
	if err != nil {
		return nil, err
	}
	v := stock.BuildValuation(groups)

	resp := &dto.ValuationReportResponse{
		ValorTotalInventario: v.TotalValue.Round(2),
		DetalleProductos:     make([]dto.ProductValuationResponse, 0, len(v.Products)),
	}
	for _, p := range v.Products {
		resp.DetalleProductos = append(resp.DetalleProductos, dto.ProductValuationResponse{
			ProductoID:     p.ProductID,
			ProductoNombre: p.ProductName,
			StockTotal:     p.StockTotal,
			CostoPromedio:  p.WeightedAverageCost.Round(2),
			ValorTotal:     p.TotalValue.Round(2),
		})
	}
	return resp, nil
}

// ValuationPDF genera la versión PDF del reporte de valoración.
func (uc *ReportUseCase) ValuationPDF(ctx context.Context) ([]byte, error) {
	report, err := uc.Valuation(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdf.Generate(*report, uc.now())
}

// Turnover calcula la rotación de inventario del período. Es una
// aproximación declarada: el "costo de ventas" es el subtotal de venta del
// período (un ingreso, no un costo) y el "inventario promedio" es la
// valoración actual, no el promedio histórico del período.
func (uc *ReportUseCase) Turnover(ctx context.Context, from, to time.Time) (*dto.TurnoverReportResponse, error) {
	costOfSales, err := uc.sales.SalesSubtotalBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	groups, err := uc.stockQuery.ValuationGroups(ctx)
	if err != nil {
		return nil, err
	}
	avgInventory := stock.BuildValuation(groups).TotalValue

	turnover := decimal.Zero
	if avgInventory.IsPositive() {
		turnover = costOfSales.Div(avgInventory)
	}

	return &dto.TurnoverReportResponse{
		PeriodoInicio:      from.Format("2006-01-02"),
		PeriodoFin:         to.Format("2006-01-02"),
		CostoDeVentas:      costOfSales.Round(2),
		InventarioPromedio: avgInventory.Round(2),
		Rotacion:           turnover.Round(2),
		ObjetivoMetrica:    "cuántas veces rotó el inventario en el período; más alto indica mejor rotación",
		MetodoAproximado:   true,
	}, nil
}

// LowStock devuelve los productos en o bajo su punto de reorden, con el
// mismo texto de alerta que generan las notificaciones.
func (uc *ReportUseCase) LowStock(ctx context.Context) ([]dto.LowStockAlertResponse, error) {
	rows, err := uc.stockQuery.ProductsAtOrBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockAlertResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockAlertResponse{
			ID:          r.ProductID,
			Nombre:      r.Name,
			StockMinimo: r.MinStock,
			StockTotal:  r.StockTotal,
			Mensaje:     alerts.LowStockMessage(r),
		})
	}
	return out, nil
}

// ExpiringLots devuelve los lotes con stock que vencen dentro de la ventana
// [hoy, hoy+windowDays]. Los lotes ya vencidos quedan fuera.
func (uc *ReportUseCase) ExpiringLots(ctx context.Context, windowDays int) ([]dto.ExpiringLotResponse, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	today := time.Date(uc.now().Year(), uc.now().Month(), uc.now().Day(), 0, 0, 0, 0, time.UTC)
	rows, err := uc.stockQuery.ExpiringLots(ctx, today, today.AddDate(0, 0, windowDays))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiringLotResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ExpiringLotResponse{
			LoteID:         r.LotID,
			CodigoLote:     r.Code,
			ProductoNombre: r.ProductName,
			FechaCaducidad: r.ExpiresAt.Format("2006-01-02"),
			StockRestante:  r.StockTotal,
			DiasParaVencer: alerts.DaysUntil(today, r.ExpiresAt),
		})
	}
	return out, nil
}
