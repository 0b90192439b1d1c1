package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
	"github.com/mercamax/mercamax-api/internal/domain/stock"
	"github.com/mercamax/mercamax-api/pkg/logger"
)

// WarehouseUseCase maneja las ubicaciones físicas, los lotes y la colocación
// de stock. La colocación valida capacidad, tipo de ubicación y categoría
// dentro de la misma transacción que escribe, para cerrar la ventana entre
// leer el agregado de la ubicación y persistir el stock item.
type WarehouseUseCase struct {
	locations          repository.LocationRepository
	locationCategories repository.LocationCategoryRepository
	lots               repository.LotRepository
	stockItems         repository.StockItemRepository
	products           repository.ProductRepository
	stockQuery         repository.StockQueryRepository
	tx                 TxRunner
	log                *logger.Logger
}

// NewWarehouseUseCase construye el caso de uso de bodega.
func NewWarehouseUseCase(
	locations repository.LocationRepository,
	locationCategories repository.LocationCategoryRepository,
	lots repository.LotRepository,
	stockItems repository.StockItemRepository,
	products repository.ProductRepository,
	stockQuery repository.StockQueryRepository,
	tx TxRunner,
	log *logger.Logger,
) *WarehouseUseCase {
	return &WarehouseUseCase{
		locations:          locations,
		locationCategories: locationCategories,
		lots:               lots,
		stockItems:         stockItems,
		products:           products,
		stockQuery:         stockQuery,
		tx:                 tx,
		log:                log,
	}
}

// ── Ubicaciones ─────────────────────────────────────────────────────────────

// CreateLocation da de alta una bodega o un estante.
func (uc *WarehouseUseCase) CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if req.Nombre == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if !validLocationType(req.Tipo) {
		return nil, fmt.Errorf("%w: tipo de ubicación desconocido: %s", domain.ErrInvalidInput, req.Tipo)
	}
	if req.CapacidadMaxima != nil && *req.CapacidadMaxima < 0 {
		return nil, fmt.Errorf("%w: la capacidad máxima no puede ser negativa", domain.ErrInvalidInput)
	}
	if req.CategoriaID != "" {
		if _, err := uc.locationCategories.GetByID(ctx, req.CategoriaID); err != nil {
			return nil, fmt.Errorf("categoría de ubicación %s: %w", req.CategoriaID, err)
		}
	}
	if req.ParentID != "" {
		parent, err := uc.locations.GetByID(ctx, req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("ubicación padre %s: %w", req.ParentID, err)
		}
		if parent.Type != entity.LocationTypeWarehouse {
			return nil, fmt.Errorf("%w: la ubicación padre debe ser una bodega", domain.ErrInvalidInput)
		}
	}

	location := &entity.Location{
		ID:         uuid.New().String(),
		Name:       req.Nombre,
		Type:       req.Tipo,
		CategoryID: req.CategoriaID,
		Capacity:   req.CapacidadMaxima,
		ParentID:   req.ParentID,
	}
	if err := uc.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return uc.toLocationResponse(ctx, location), nil
}

// UpdateLocation modifica una ubicación existente. Reducir la capacidad por
// debajo del stock actual no se valida aquí: las colocaciones futuras lo harán.
func (uc *WarehouseUseCase) UpdateLocation(ctx context.Context, id string, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if req.Nombre == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if !validLocationType(req.Tipo) {
		return nil, fmt.Errorf("%w: tipo de ubicación desconocido: %s", domain.ErrInvalidInput, req.Tipo)
	}
	if req.CapacidadMaxima != nil && *req.CapacidadMaxima < 0 {
		return nil, fmt.Errorf("%w: la capacidad máxima no puede ser negativa", domain.ErrInvalidInput)
	}
	if req.CategoriaID != "" {
		if _, err := uc.locationCategories.GetByID(ctx, req.CategoriaID); err != nil {
			return nil, fmt.Errorf("categoría de ubicación %s: %w", req.CategoriaID, err)
		}
	}
	if req.ParentID != "" {
		if req.ParentID == id {
			return nil, fmt.Errorf("%w: una ubicación no puede ser su propio padre", domain.ErrInvalidInput)
		}
		parent, err := uc.locations.GetByID(ctx, req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("ubicación padre %s: %w", req.ParentID, err)
		}
		if parent.Type != entity.LocationTypeWarehouse {
			return nil, fmt.Errorf("%w: la ubicación padre debe ser una bodega", domain.ErrInvalidInput)
		}
	}

	location, err := uc.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	location.Name = req.Nombre
	location.Type = req.Tipo
	location.CategoryID = req.CategoriaID
	location.Capacity = req.CapacidadMaxima
	location.ParentID = req.ParentID
	if err := uc.locations.Update(ctx, location); err != nil {
		return nil, err
	}
	return uc.toLocationResponse(ctx, location), nil
}

// GetLocation devuelve una ubicación.
func (uc *WarehouseUseCase) GetLocation(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toLocationResponse(ctx, location), nil
}

// ListLocations devuelve una página de ubicaciones.
func (uc *WarehouseUseCase) ListLocations(ctx context.Context, page dto.PageRequest) ([]dto.LocationResponse, error) {
	page.DefaultPage()
	locations, err := uc.locations.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, *uc.toLocationResponse(ctx, l))
	}
	return out, nil
}

// DeleteLocation elimina una ubicación.
func (uc *WarehouseUseCase) DeleteLocation(ctx context.Context, id string) error {
	return uc.locations.Delete(ctx, id)
}

// LocationTypes devuelve los tipos de ubicación disponibles.
func (uc *WarehouseUseCase) LocationTypes() []dto.LocationTypeResponse {
	out := make([]dto.LocationTypeResponse, 0, len(entity.LocationTypes))
	for _, t := range entity.LocationTypes {
		out = append(out, dto.LocationTypeResponse{Value: t.Value, Label: t.Label})
	}
	return out
}

// ── Categorías de ubicación ─────────────────────────────────────────────────

func (uc *WarehouseUseCase) CreateLocationCategory(ctx context.Context, req dto.LocationCategoryRequest) (*dto.LocationCategoryResponse, error) {
	if req.Nombre == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	category := &entity.LocationCategory{
		ID:          uuid.New().String(),
		Name:        req.Nombre,
		Description: req.Descripcion,
	}
	if err := uc.locationCategories.Create(ctx, category); err != nil {
		return nil, err
	}
	return &dto.LocationCategoryResponse{ID: category.ID, Nombre: category.Name, Descripcion: category.Description}, nil
}

func (uc *WarehouseUseCase) ListLocationCategories(ctx context.Context) ([]dto.LocationCategoryResponse, error) {
	categories, err := uc.locationCategories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationCategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.LocationCategoryResponse{ID: c.ID, Nombre: c.Name, Descripcion: c.Description})
	}
	return out, nil
}

func (uc *WarehouseUseCase) DeleteLocationCategory(ctx context.Context, id string) error {
	return uc.locationCategories.Delete(ctx, id)
}

// ── Lotes ───────────────────────────────────────────────────────────────────

// CreateLot da de alta un lote recibido fuera del circuito de órdenes de
// compra (recepción directa).
func (uc *WarehouseUseCase) CreateLot(ctx context.Context, req dto.CreateLotRequest) (*dto.LotResponse, error) {
	if req.CodigoLote == "" {
		return nil, fmt.Errorf("%w: el código de lote es obligatorio", domain.ErrInvalidInput)
	}
	if req.CostoCompraLote.IsNegative() {
		return nil, fmt.Errorf("%w: el costo de compra no puede ser negativo", domain.ErrInvalidInput)
	}
	expiresAt, err := time.Parse("2006-01-02", req.FechaCaducidad)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de caducidad inválida (se espera YYYY-MM-DD): %s", domain.ErrInvalidInput, req.FechaCaducidad)
	}
	if _, err := uc.products.GetByID(ctx, req.ProductoID); err != nil {
		return nil, fmt.Errorf("producto %s: %w", req.ProductoID, err)
	}

	lot := &entity.Lot{
		ID:         uuid.New().String(),
		ProductID:  req.ProductoID,
		Code:       req.CodigoLote,
		ReceivedAt: time.Now(),
		ExpiresAt:  expiresAt,
		UnitCost:   req.CostoCompraLote,
	}
	if err := uc.lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	resp := toLotResponse(lot, 0)
	return &resp, nil
}

// GetLot devuelve un lote con su stock restante.
func (uc *WarehouseUseCase) GetLot(ctx context.Context, id string) (*dto.LotResponse, error) {
	lot, err := uc.lots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	remaining, err := uc.stockQuery.TotalStockByLot(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toLotResponse(lot, remaining)
	return &resp, nil
}

// ListLots devuelve una página de lotes con su stock restante.
func (uc *WarehouseUseCase) ListLots(ctx context.Context, page dto.PageRequest) ([]dto.LotResponse, error) {
	page.DefaultPage()
	lots, err := uc.lots.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, lot := range lots {
		remaining, err := uc.stockQuery.TotalStockByLot(ctx, lot.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toLotResponse(lot, remaining))
	}
	return out, nil
}

// DeleteLot elimina un lote. Solo se permite si el lote ya no tiene stock;
// un lote con existencias se descuenta vía ajustes, no borrándolo.
func (uc *WarehouseUseCase) DeleteLot(ctx context.Context, id string) error {
	remaining, err := uc.stockQuery.TotalStockByLot(ctx, id)
	if err != nil {
		return err
	}
	if remaining > 0 {
		return fmt.Errorf("%w: el lote aún tiene %d unidades en stock", domain.ErrConflict, remaining)
	}
	return uc.lots.Delete(ctx, id)
}

// ── Colocación de stock ─────────────────────────────────────────────────────

// PlaceStock crea o actualiza el stock item del par (lote, ubicación).
// Toda la secuencia leer-validar-escribir corre en una transacción.
func (uc *WarehouseUseCase) PlaceStock(ctx context.Context, req dto.PlaceStockRequest) (*dto.StockItemResponse, error) {
	if req.Cantidad < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}

	var resp *dto.StockItemResponse
	err := uc.tx.WithinTx(ctx, func(repos TxRepos) error {
		lot, err := repos.Lots.GetByID(ctx, req.LoteID)
		if err != nil {
			return fmt.Errorf("lote %s: %w", req.LoteID, err)
		}
		location, err := repos.Locations.GetByID(ctx, req.UbicacionID)
		if err != nil {
			return fmt.Errorf("ubicación %s: %w", req.UbicacionID, err)
		}
		product, err := repos.Products.GetByID(ctx, lot.ProductID)
		if err != nil {
			return err
		}

		var productCategory string
		if product.CategoryID != "" {
			cat, err := repos.ProductCategories.GetByID(ctx, product.CategoryID)
			if err != nil {
				return err
			}
			productCategory = cat.Name
		}
		var locationCategory string
		if location.CategoryID != "" {
			cat, err := repos.LocationCategories.GetByID(ctx, location.CategoryID)
			if err != nil {
				return err
			}
			locationCategory = cat.Name
		}

		var oldQuantity int64
		existing, err := repos.StockItems.GetByLotAndLocation(ctx, req.LoteID, req.UbicacionID)
		switch {
		case err == nil:
			oldQuantity = existing.Quantity
		case errors.Is(err, domain.ErrNotFound):
			existing = nil
		default:
			return err
		}

		current, err := repos.StockQuery.TotalAtLocation(ctx, req.UbicacionID)
		if err != nil {
			return err
		}

		if err := stock.ValidatePlacement(stock.PlacementInput{
			ProductName:       product.Name,
			ProductCategory:   productCategory,
			LocationName:      location.Name,
			LocationType:      location.Type,
			LocationCategory:  locationCategory,
			Capacity:          location.Capacity,
			CurrentAtLocation: current,
			OldQuantity:       oldQuantity,
			Quantity:          req.Cantidad,
		}); err != nil {
			return err
		}

		item := existing
		if item == nil {
			item = &entity.StockItem{
				ID:         uuid.New().String(),
				LotID:      req.LoteID,
				LocationID: req.UbicacionID,
				Quantity:   req.Cantidad,
			}
			if err := repos.StockItems.Upsert(ctx, item); err != nil {
				return err
			}
		} else if err := repos.StockItems.UpdateQuantity(ctx, item.ID, req.Cantidad); err != nil {
			return err
		}

		resp = &dto.StockItemResponse{
			ID:          item.ID,
			LoteID:      req.LoteID,
			UbicacionID: req.UbicacionID,
			Cantidad:    req.Cantidad,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("lote", req.LoteID).Str("ubicacion", req.UbicacionID).
		Int64("cantidad", req.Cantidad).Msg("stock colocado")
	return resp, nil
}

// ListStockItems devuelve una página de stock items.
func (uc *WarehouseUseCase) ListStockItems(ctx context.Context, page dto.PageRequest) ([]dto.StockItemResponse, error) {
	page.DefaultPage()
	items, err := uc.stockItems.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.StockItemResponse{
			ID:          it.ID,
			LoteID:      it.LotID,
			UbicacionID: it.LocationID,
			Cantidad:    it.Quantity,
		})
	}
	return out, nil
}

// AdjustInventory corrige la cantidad de un stock item tras un conteo físico
// y deja el registro de auditoría en la misma transacción.
func (uc *WarehouseUseCase) AdjustInventory(ctx context.Context, userID string, req dto.AdjustInventoryRequest) (*dto.StockItemResponse, error) {
	if req.CantidadContada < 0 {
		return nil, fmt.Errorf("%w: la cantidad contada no puede ser negativa", domain.ErrInvalidInput)
	}
	if !validAdjustmentReason(req.Motivo) {
		return nil, fmt.Errorf("%w: motivo de ajuste desconocido: %s", domain.ErrInvalidInput, req.Motivo)
	}

	var resp *dto.StockItemResponse
	err := uc.tx.WithinTx(ctx, func(repos TxRepos) error {
		item, err := repos.StockItems.GetByID(ctx, req.StockItemID)
		if err != nil {
			return fmt.Errorf("stock item %s: %w", req.StockItemID, err)
		}

		adj := &entity.InventoryAdjustment{
			ID:          uuid.New().String(),
			StockItemID: item.ID,
			PreviousQty: item.Quantity,
			NewQty:      req.CantidadContada,
			Reason:      req.Motivo,
			Notes:       req.Notas,
			UserID:      userID,
		}
		if err := repos.Adjustments.Create(ctx, adj); err != nil {
			return err
		}
		if err := repos.StockItems.UpdateQuantity(ctx, item.ID, req.CantidadContada); err != nil {
			return err
		}

		resp = &dto.StockItemResponse{
			ID:          item.ID,
			LoteID:      item.LotID,
			UbicacionID: item.LocationID,
			Cantidad:    req.CantidadContada,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("stock_item", req.StockItemID).Str("motivo", req.Motivo).
		Int64("cantidad", req.CantidadContada).Msg("inventario ajustado")
	return resp, nil
}

// ── Helpers ─────────────────────────────────────────────────────────────────

func validLocationType(t string) bool {
	switch t {
	case entity.LocationTypeWarehouse, entity.LocationTypeWarehouseShelf, entity.LocationTypeStoreShelf:
		return true
	}
	return false
}

func validAdjustmentReason(r string) bool {
	switch r {
	case entity.AdjustmentReasonCount, entity.AdjustmentReasonDamage,
		entity.AdjustmentReasonTheft, entity.AdjustmentReasonOther:
		return true
	}
	return false
}

func (uc *WarehouseUseCase) toLocationResponse(ctx context.Context, l *entity.Location) *dto.LocationResponse {
	resp := &dto.LocationResponse{
		ID:              l.ID,
		Nombre:          l.Name,
		Tipo:            l.Type,
		CategoriaID:     l.CategoryID,
		CapacidadMaxima: l.Capacity,
		ParentID:        l.ParentID,
	}
	if l.CategoryID != "" {
		if cat, err := uc.locationCategories.GetByID(ctx, l.CategoryID); err == nil {
			resp.CategoriaNombre = cat.Name
		}
	}
	if l.ParentID != "" {
		if parent, err := uc.locations.GetByID(ctx, l.ParentID); err == nil {
			resp.ParentNombre = parent.Name
		}
	}
	return resp
}

func toLotResponse(lot *entity.Lot, remaining int64) dto.LotResponse {
	return dto.LotResponse{
		ID:              lot.ID,
		ProductoID:      lot.ProductID,
		CodigoLote:      lot.Code,
		FechaRecepcion:  lot.ReceivedAt,
		FechaCaducidad:  lot.ExpiresAt.Format("2006-01-02"),
		CostoCompraLote: lot.UnitCost,
		StockRestante:   remaining,
	}
}
