package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
	"github.com/mercamax/mercamax-api/pkg/logger"
)

// SaleUseCase registra ventas de caja. El precio unitario y los subtotales
// se congelan al momento de la venta con el precio vigente del producto; el
// cliente nunca manda importes.
type SaleUseCase struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	tx       TxRunner
	log      *logger.Logger
}

func NewSaleUseCase(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	tx TxRunner,
	log *logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{sales: sales, products: products, tx: tx, log: log}
}

// Create registra una venta con sus líneas atómicamente.
func (uc *SaleUseCase) Create(ctx context.Context, cashierID string, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(req.Detalles) == 0 {
		return nil, fmt.Errorf("%w: la venta necesita al menos una línea", domain.ErrInvalidInput)
	}

	var resp dto.SaleResponse
	err := uc.tx.WithinTx(ctx, func(repos TxRepos) error {
		sale := &entity.Sale{
			ID:        uuid.New().String(),
			CashierID: cashierID,
			Date:      time.Now(),
			Total:     decimal.Zero,
		}
		for _, d := range req.Detalles {
			if d.Cantidad <= 0 {
				return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
			}
			product, err := repos.Products.GetByID(ctx, d.ProductoID)
			if err != nil {
				return fmt.Errorf("producto %s: %w", d.ProductoID, err)
			}
			subtotal := product.Price.Mul(decimal.NewFromInt(d.Cantidad))
			sale.Details = append(sale.Details, entity.SaleDetail{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: d.ProductoID,
				Quantity:  d.Cantidad,
				UnitPrice: product.Price,
				Subtotal:  subtotal,
			})
			sale.Total = sale.Total.Add(subtotal)
		}

		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		resp = toSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("venta", resp.ID).Str("cajero", cashierID).
		Str("total", resp.Total.String()).Msg("venta registrada")
	return &resp, nil
}

// GetByID devuelve una venta con sus líneas.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSaleResponse(sale)
	return &resp, nil
}

// List devuelve una página de ventas.
func (uc *SaleUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.SaleResponse, error) {
	page.DefaultPage()
	sales, err := uc.sales.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:       s.ID,
		CajeroID: s.CashierID,
		Fecha:    s.Date,
		Total:    s.Total.Round(2),
	}
	for _, d := range s.Details {
		resp.Detalles = append(resp.Detalles, dto.SaleDetailResponse{
			ID:             d.ID,
			ProductoID:     d.ProductID,
			Cantidad:       d.Quantity,
			PrecioUnitario: d.UnitPrice,
			Subtotal:       d.Subtotal.Round(2),
		})
	}
	return resp
}
