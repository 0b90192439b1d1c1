package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mercamax/mercamax-api/internal/application/alerts"
	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/application/usecase"
)

// ReportHandler maneja reportes de valoración, rotación y alertas de lectura.
type ReportHandler struct {
	reports *usecase.ReportUseCase
	alerts  *alerts.UseCase
}

// NewReportHandler construye el handler de reportes.
func NewReportHandler(reports *usecase.ReportUseCase, alertsUC *alerts.UseCase) *ReportHandler {
	return &ReportHandler{reports: reports, alerts: alertsUC}
}

// Valuation godoc
// @Summary      Reporte de valoración del inventario (costo promedio ponderado)
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ValuationReportResponse
// @Router       /api/bodega/reportes/valoracion [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.reports.Valuation(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ValuationPDF godoc
// @Summary      Reporte de valoración en PDF
// @Tags         reportes
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/bodega/reportes/valoracion/pdf [get]
func (h *ReportHandler) ValuationPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.reports.ValuationPDF(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="valoracion_inventario.pdf"`)
	return c.Send(pdfBytes)
}

// Turnover godoc
// @Summary      Rotación de inventario aproximada del período
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        desde  query  string  true  "YYYY-MM-DD"
// @Param        hasta  query  string  true  "YYYY-MM-DD"
// @Success      200    {object}  dto.TurnoverReportResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/bodega/reportes/rotacion [get]
func (h *ReportHandler) Turnover(c *fiber.Ctx) error {
	from, err := time.Parse("2006-01-02", c.Query("desde"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde debe ser YYYY-MM-DD"})
	}
	to, err := time.Parse("2006-01-02", c.Query("hasta"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta debe ser YYYY-MM-DD"})
	}
	if to.Before(from) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta no puede ser anterior a desde"})
	}
	out, err := h.reports.Turnover(c.UserContext(), from, to)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos en o bajo su punto de reorden
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockAlertResponse
// @Router       /api/bodega/alertas/stock-bajo [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.reports.LowStock(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ExpiringLots godoc
// @Summary      Lotes con stock que vencen dentro de la ventana
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        dias  query  int  false  "Ventana en días"  default(30)
// @Success      200   {array}  dto.ExpiringLotResponse
// @Router       /api/bodega/alertas/por-vencer [get]
func (h *ReportHandler) ExpiringLots(c *fiber.Ctx) error {
	out, err := h.reports.ExpiringLots(c.UserContext(), c.QueryInt("dias", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// RunAlerts godoc
// @Summary      Ejecutar el generador de alertas (notificaciones deduplicadas)
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AlertRunResponse
// @Router       /api/bodega/alertas/generar [post]
func (h *ReportHandler) RunAlerts(c *fiber.Ctx) error {
	result, err := h.alerts.RunAlertGeneration(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.AlertRunResponse{
		LowStockCount:        result.LowStockCount,
		ExpiringLotCount:     result.ExpiringLotCount,
		NotificationsCreated: result.NotificationsCreated,
	})
}
