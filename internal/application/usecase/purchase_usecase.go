package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
	"github.com/mercamax/mercamax-api/pkg/logger"
)

// PurchaseUseCase maneja el ciclo de vida de las órdenes de compra:
// PENDIENTE -> COMPLETADA (recepción, que crea un lote por línea) o
// PENDIENTE -> CANCELADA. Cualquier otra transición es un conflicto.
type PurchaseUseCase struct {
	orders    repository.PurchaseOrderRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	tx        TxRunner
	log       *logger.Logger
}

func NewPurchaseUseCase(
	orders repository.PurchaseOrderRepository,
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	tx TxRunner,
	log *logger.Logger,
) *PurchaseUseCase {
	return &PurchaseUseCase{orders: orders, suppliers: suppliers, products: products, tx: tx, log: log}
}

// Create da de alta una orden de compra en estado PENDIENTE.
func (uc *PurchaseUseCase) Create(ctx context.Context, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if len(req.Detalles) == 0 {
		return nil, fmt.Errorf("%w: la orden necesita al menos una línea de detalle", domain.ErrInvalidInput)
	}
	if _, err := uc.suppliers.GetByID(ctx, req.ProveedorID); err != nil {
		return nil, fmt.Errorf("proveedor %s: %w", req.ProveedorID, err)
	}

	order := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		SupplierID: req.ProveedorID,
		Status:     entity.PurchaseOrderPending,
	}
	for _, d := range req.Detalles {
		if d.CantidadSolicitada <= 0 {
			return nil, fmt.Errorf("%w: la cantidad solicitada debe ser positiva", domain.ErrInvalidInput)
		}
		if d.CostoUnitario.IsNegative() {
			return nil, fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
		}
		if _, err := uc.products.GetByID(ctx, d.ProductoID); err != nil {
			return nil, fmt.Errorf("producto %s: %w", d.ProductoID, err)
		}
		order.Details = append(order.Details, entity.PurchaseOrderDetail{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: d.ProductoID,
			Quantity:  d.CantidadSolicitada,
			UnitCost:  d.CostoUnitario,
		})
	}

	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	uc.log.Info().Str("orden", order.ID).Str("proveedor", order.SupplierID).
		Int("lineas", len(order.Details)).Msg("orden de compra creada")

	resp := toPurchaseOrderResponse(order)
	return &resp, nil
}

// Receive marca la orden como recibida: crea un lote por cada línea con el
// costo de la línea y la fecha de caducidad indicada para su producto, y
// pasa la orden a COMPLETADA. Todo en una transacción: o se crean todos los
// lotes y cambia el estado, o nada.
func (uc *PurchaseUseCase) Receive(ctx context.Context, orderID string, req dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	var resp dto.PurchaseOrderResponse
	err := uc.tx.WithinTx(ctx, func(repos TxRepos) error {
		order, err := repos.PurchaseOrders.GetByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orden %s: %w", orderID, err)
		}
		if order.Status != entity.PurchaseOrderPending {
			return fmt.Errorf("%w: la orden está %s, solo se reciben órdenes pendientes",
				domain.ErrConflict, order.Status)
		}

		now := time.Now()
		for i, d := range order.Details {
			raw, ok := req.FechasCaducidad[d.ProductID]
			if !ok {
				return fmt.Errorf("%w: falta la fecha de caducidad del producto %s",
					domain.ErrInvalidInput, d.ProductID)
			}
			expiresAt, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return fmt.Errorf("%w: fecha de caducidad inválida para el producto %s: %s",
					domain.ErrInvalidInput, d.ProductID, raw)
			}

			lot := &entity.Lot{
				ID:         uuid.New().String(),
				ProductID:  d.ProductID,
				Code:       lotCodeForOrder(order.ID, i+1),
				ReceivedAt: now,
				ExpiresAt:  expiresAt,
				UnitCost:   d.UnitCost,
			}
			if err := repos.Lots.Create(ctx, lot); err != nil {
				return err
			}
		}

		order.Status = entity.PurchaseOrderCompleted
		order.ReceivedAt = &now
		if err := repos.PurchaseOrders.UpdateStatus(ctx, order); err != nil {
			return err
		}

		resp = toPurchaseOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("orden", orderID).Msg("orden de compra recibida")
	return &resp, nil
}

// Cancel cancela una orden pendiente.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, orderID string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.PurchaseOrderPending {
		return nil, fmt.Errorf("%w: la orden está %s, solo se cancelan órdenes pendientes",
			domain.ErrConflict, order.Status)
	}
	order.Status = entity.PurchaseOrderCancelled
	if err := uc.orders.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}
	resp := toPurchaseOrderResponse(order)
	return &resp, nil
}

// GetByID devuelve una orden con sus líneas.
func (uc *PurchaseUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPurchaseOrderResponse(order)
	return &resp, nil
}

// List devuelve una página de órdenes.
func (uc *PurchaseUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.PurchaseOrderResponse, error) {
	page.DefaultPage()
	orders, err := uc.orders.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toPurchaseOrderResponse(o))
	}
	return out, nil
}

// lotCodeForOrder genera el código del lote creado al recibir una línea:
// prefijo de la orden más el número de línea.
func lotCodeForOrder(orderID string, line int) string {
	short := orderID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("OC-%s-%d", short, line)
}

func toPurchaseOrderResponse(o *entity.PurchaseOrder) dto.PurchaseOrderResponse {
	resp := dto.PurchaseOrderResponse{
		ID:             o.ID,
		ProveedorID:    o.SupplierID,
		Estado:         o.Status,
		FechaCreacion:  o.CreatedAt,
		FechaRecepcion: o.ReceivedAt,
	}
	for _, d := range o.Details {
		resp.Detalles = append(resp.Detalles, dto.PurchaseOrderDetailResponse{
			ID:                 d.ID,
			ProductoID:         d.ProductID,
			CantidadSolicitada: d.Quantity,
			CostoUnitario:      d.UnitCost,
		})
	}
	return resp
}
