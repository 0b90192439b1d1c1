package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/pkg/logger"
)

func newPurchaseUC(s *memStore) *PurchaseUseCase {
	r := s.repos()
	return NewPurchaseUseCase(r.PurchaseOrders, r.Suppliers, r.Products, s, logger.NewNop())
}

func seedPurchase(s *memStore) {
	s.suppliers["prov-1"] = &entity.Supplier{ID: "prov-1", Name: "Lácteos del Valle"}
	s.products["prod-leche"] = &entity.Product{
		ID: "prod-leche", Name: "Leche Entera 1L", Barcode: "750100001",
		Price: decimal.NewFromInt(25), SupplierID: "prov-1",
	}
	s.products["prod-yogur"] = &entity.Product{
		ID: "prod-yogur", Name: "Yogur Natural", Barcode: "750100003",
		Price: decimal.NewFromInt(15), SupplierID: "prov-1",
	}
}

func createTestOrder(t *testing.T, uc *PurchaseUseCase) *dto.PurchaseOrderResponse {
	t.Helper()
	order, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		ProveedorID: "prov-1",
		Detalles: []dto.PurchaseOrderDetailRequest{
			{ProductoID: "prod-leche", CantidadSolicitada: 50, CostoUnitario: decimal.NewFromInt(18)},
			{ProductoID: "prod-yogur", CantidadSolicitada: 30, CostoUnitario: decimal.NewFromInt(11)},
		},
	})
	require.NoError(t, err)
	return order
}

func TestPurchaseCreate_NacePendiente(t *testing.T) {
	s := newMemStore()
	seedPurchase(s)
	uc := newPurchaseUC(s)

	order := createTestOrder(t, uc)

	assert.Equal(t, entity.PurchaseOrderPending, order.Estado)
	assert.Nil(t, order.FechaRecepcion)
	require.Len(t, order.Detalles, 2)
}

func TestPurchaseCreate_Validaciones(t *testing.T) {
	s := newMemStore()
	seedPurchase(s)
	uc := newPurchaseUC(s)

	tests := []struct {
		name string
		req  dto.CreatePurchaseOrderRequest
	}{
		{"sin detalles", dto.CreatePurchaseOrderRequest{ProveedorID: "prov-1"}},
		{"cantidad cero", dto.CreatePurchaseOrderRequest{
			ProveedorID: "prov-1",
			Detalles:    []dto.PurchaseOrderDetailRequest{{ProductoID: "prod-leche", CantidadSolicitada: 0}},
		}},
		{"costo negativo", dto.CreatePurchaseOrderRequest{
			ProveedorID: "prov-1",
			Detalles: []dto.PurchaseOrderDetailRequest{
				{ProductoID: "prod-leche", CantidadSolicitada: 5, CostoUnitario: decimal.NewFromInt(-1)},
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPurchaseReceive_CreaUnLotePorLinea(t *testing.T) {
	s := newMemStore()
	seedPurchase(s)
	uc := newPurchaseUC(s)
	order := createTestOrder(t, uc)

	received, err := uc.Receive(context.Background(), order.ID, dto.ReceivePurchaseOrderRequest{
		FechasCaducidad: map[string]string{
			"prod-leche": "2025-06-01",
			"prod-yogur": "2025-04-15",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseOrderCompleted, received.Estado)
	require.NotNil(t, received.FechaRecepcion)

	lots, err := s.repos().Lots.List(context.Background(), 100, 0)
	require.NoError(t, err)
	require.Len(t, lots, 2)

	byProduct := make(map[string]*entity.Lot)
	for _, lot := range lots {
		byProduct[lot.ProductID] = lot
	}
	assert.Equal(t, "2025-06-01", byProduct["prod-leche"].ExpiresAt.Format("2006-01-02"))
	assert.True(t, byProduct["prod-leche"].UnitCost.Equal(decimal.NewFromInt(18)))
	assert.True(t, byProduct["prod-yogur"].UnitCost.Equal(decimal.NewFromInt(11)))
}

func TestPurchaseReceive_FaltaFechaDeCaducidad(t *testing.T) {
	s := newMemStore()
	seedPurchase(s)
	uc := newPurchaseUC(s)
	order := createTestOrder(t, uc)

	_, err := uc.Receive(context.Background(), order.ID, dto.ReceivePurchaseOrderRequest{
		FechasCaducidad: map[string]string{"prod-leche": "2025-06-01"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseReceive_SoloOrdenesPendientes(t *testing.T) {
	s := newMemStore()
	seedPurchase(s)
	uc := newPurchaseUC(s)
	order := createTestOrder(t, uc)

	fechas := dto.ReceivePurchaseOrderRequest{FechasCaducidad: map[string]string{
		"prod-leche": "2025-06-01", "prod-yogur": "2025-04-15",
	}}
	_, err := uc.Receive(context.Background(), order.ID, fechas)
	require.NoError(t, err)

	// Recibir dos veces es un conflicto.
	_, err = uc.Receive(context.Background(), order.ID, fechas)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPurchaseCancel_SoloOrdenesPendientes(t *testing.T) {
	s := newMemStore()
	seedPurchase(s)
	uc := newPurchaseUC(s)

	order := createTestOrder(t, uc)
	cancelled, err := uc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderCancelled, cancelled.Estado)

	_, err = uc.Cancel(context.Background(), order.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Una orden cancelada tampoco se puede recibir.
	_, err = uc.Receive(context.Background(), order.ID, dto.ReceivePurchaseOrderRequest{
		FechasCaducidad: map[string]string{"prod-leche": "2025-06-01", "prod-yogur": "2025-04-15"},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
