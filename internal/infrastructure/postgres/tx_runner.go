package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercamax/mercamax-api/internal/application/usecase"
)

var _ usecase.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con los
// repositorios atados a la tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// WithinTx inicia una transacción, ejecuta fn con repos atados a la tx y
// hace Commit si fn devuelve nil, Rollback en caso contrario.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(repos usecase.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := usecase.TxRepos{
		Products:           NewProductRepository(tx),
		ProductCategories:  NewProductCategoryRepository(tx),
		Suppliers:          NewSupplierRepository(tx),
		Locations:          NewLocationRepository(tx),
		LocationCategories: NewLocationCategoryRepository(tx),
		Lots:               NewLotRepository(tx),
		StockItems:         NewStockItemRepository(tx),
		Adjustments:        NewAdjustmentRepository(tx),
		StockQuery:         NewStockQueryRepository(tx),
		PurchaseOrders:     NewPurchaseOrderRepository(tx),
		Sales:              NewSaleRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
