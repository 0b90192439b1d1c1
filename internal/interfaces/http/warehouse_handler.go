package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/application/usecase"
)

// WarehouseHandler maneja ubicaciones, lotes, stock items y ajustes.
type WarehouseHandler struct {
	uc *usecase.WarehouseUseCase
}

// NewWarehouseHandler construye el handler de bodega.
func NewWarehouseHandler(uc *usecase.WarehouseUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// ── Ubicaciones ──────────────────────────────────────────────────────────────

// CreateLocation godoc
// @Summary      Crear ubicación (bodega o estante)
// @Tags         bodega
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "nombre, tipo, categoria, capacidad_maxima, parent"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/bodega/ubicaciones [post]
func (h *WarehouseHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateLocation(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *WarehouseHandler) GetLocation(c *fiber.Ctx) error {
	out, err := h.uc.GetLocation(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *WarehouseHandler) ListLocations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListLocations(c.UserContext(), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *WarehouseHandler) UpdateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateLocation(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *WarehouseHandler) DeleteLocation(c *fiber.Ctx) error {
	if err := h.uc.DeleteLocation(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LocationTypes devuelve los tipos de ubicación con su etiqueta.
func (h *WarehouseHandler) LocationTypes(c *fiber.Ctx) error {
	return c.JSON(h.uc.LocationTypes())
}

// ── Categorías de ubicación ──────────────────────────────────────────────────

func (h *WarehouseHandler) CreateLocationCategory(c *fiber.Ctx) error {
	var in dto.LocationCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateLocationCategory(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *WarehouseHandler) ListLocationCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListLocationCategories(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *WarehouseHandler) DeleteLocationCategory(c *fiber.Ctx) error {
	if err := h.uc.DeleteLocationCategory(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Lotes ────────────────────────────────────────────────────────────────────

// CreateLot godoc
// @Summary      Crear lote manual
// @Tags         bodega
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "producto, codigo_lote, fecha_caducidad, costo_compra_lote"
// @Success      201   {object}  dto.LotResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bodega/lotes [post]
func (h *WarehouseHandler) CreateLot(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateLot(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *WarehouseHandler) GetLot(c *fiber.Ctx) error {
	out, err := h.uc.GetLot(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *WarehouseHandler) ListLots(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListLots(c.UserContext(), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// DeleteLot rechaza con 409 si el lote aún tiene stock.
func (h *WarehouseHandler) DeleteLot(c *fiber.Ctx) error {
	if err := h.uc.DeleteLot(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Stock ────────────────────────────────────────────────────────────────────

// PlaceStock godoc
// @Summary      Colocar stock de un lote en una ubicación
// @Description  Valida capacidad, tipo de ubicación y compatibilidad de
// @Description  categoría dentro de la misma transacción que la escritura.
// @Tags         bodega
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceStockRequest  true  "lote, ubicacion, cantidad"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/bodega/stock [post]
func (h *WarehouseHandler) PlaceStock(c *fiber.Ctx) error {
	var in dto.PlaceStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PlaceStock(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *WarehouseHandler) ListStockItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListStockItems(c.UserContext(), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// AdjustInventory godoc
// @Summary      Ajuste manual de inventario tras conteo físico
// @Tags         bodega
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustInventoryRequest  true  "stock_item_id, cantidad_contada, motivo, notas"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/bodega/ajustes [post]
func (h *WarehouseHandler) AdjustInventory(c *fiber.Ctx) error {
	var in dto.AdjustInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AdjustInventory(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
