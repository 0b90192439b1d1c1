package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
	"github.com/mercamax/mercamax-api/internal/domain/stock"
)

// memStore es el almacén en memoria compartido por los fakes de los tests
// del paquete: una versión mínima coherente de la base de datos, con los
// agregados de stock calculados sobre los mismos datos que las escrituras.
type memStore struct {
	products           map[string]*entity.Product
	productCategories  map[string]*entity.ProductCategory
	suppliers          map[string]*entity.Supplier
	locations          map[string]*entity.Location
	locationCategories map[string]*entity.LocationCategory
	lots               map[string]*entity.Lot
	stockItems         map[string]*entity.StockItem
	adjustments        []*entity.InventoryAdjustment
	orders             map[string]*entity.PurchaseOrder
	sales              map[string]*entity.Sale
}

func newMemStore() *memStore {
	return &memStore{
		products:           make(map[string]*entity.Product),
		productCategories:  make(map[string]*entity.ProductCategory),
		suppliers:          make(map[string]*entity.Supplier),
		locations:          make(map[string]*entity.Location),
		locationCategories: make(map[string]*entity.LocationCategory),
		lots:               make(map[string]*entity.Lot),
		stockItems:         make(map[string]*entity.StockItem),
		orders:             make(map[string]*entity.PurchaseOrder),
		sales:              make(map[string]*entity.Sale),
	}
}

// WithinTx implementa TxRunner sin transacción real: suficiente para probar
// la lógica de los casos de uso.
func (s *memStore) WithinTx(_ context.Context, fn func(repos TxRepos) error) error {
	return fn(s.repos())
}

func (s *memStore) repos() TxRepos {
	return TxRepos{
		Products:           &memProducts{s},
		ProductCategories:  &memProductCategories{s},
		Suppliers:          &memSuppliers{s},
		Locations:          &memLocations{s},
		LocationCategories: &memLocationCategories{s},
		Lots:               &memLots{s},
		StockItems:         &memStockItems{s},
		Adjustments:        &memAdjustments{s},
		StockQuery:         &memStockQuery{s},
		PurchaseOrders:     &memOrders{s},
		Sales:              &memSales{s},
	}
}

// ── Productos, categorías, proveedores ──────────────────────────────────────

type memProducts struct{ s *memStore }

func (r *memProducts) Create(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := r.s.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memProducts) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memProducts) Update(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *memProducts) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return pageOf(out, limit, offset), nil
}

func (r *memProducts) Delete(_ context.Context, id string) error {
	delete(r.s.products, id)
	return nil
}

type memProductCategories struct{ s *memStore }

func (r *memProductCategories) Create(_ context.Context, c *entity.ProductCategory) error {
	r.s.productCategories[c.ID] = c
	return nil
}

func (r *memProductCategories) GetByID(_ context.Context, id string) (*entity.ProductCategory, error) {
	if c, ok := r.s.productCategories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memProductCategories) List(_ context.Context) ([]*entity.ProductCategory, error) {
	out := make([]*entity.ProductCategory, 0, len(r.s.productCategories))
	for _, c := range r.s.productCategories {
		out = append(out, c)
	}
	return out, nil
}

func (r *memProductCategories) Delete(_ context.Context, id string) error {
	delete(r.s.productCategories, id)
	return nil
}

type memSuppliers struct{ s *memStore }

func (r *memSuppliers) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.suppliers[sp.ID] = sp
	return nil
}

func (r *memSuppliers) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	if sp, ok := r.s.suppliers[id]; ok {
		return sp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memSuppliers) Update(_ context.Context, sp *entity.Supplier) error {
	r.s.suppliers[sp.ID] = sp
	return nil
}

func (r *memSuppliers) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	out := make([]*entity.Supplier, 0, len(r.s.suppliers))
	for _, sp := range r.s.suppliers {
		out = append(out, sp)
	}
	return pageOf(out, limit, offset), nil
}

func (r *memSuppliers) Delete(_ context.Context, id string) error {
	delete(r.s.suppliers, id)
	return nil
}

// ── Ubicaciones y lotes ─────────────────────────────────────────────────────

type memLocations struct{ s *memStore }

func (r *memLocations) Create(_ context.Context, l *entity.Location) error {
	r.s.locations[l.ID] = l
	return nil
}

func (r *memLocations) GetByID(_ context.Context, id string) (*entity.Location, error) {
	if l, ok := r.s.locations[id]; ok {
		return l, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memLocations) Update(_ context.Context, l *entity.Location) error {
	r.s.locations[l.ID] = l
	return nil
}

func (r *memLocations) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	out := make([]*entity.Location, 0, len(r.s.locations))
	for _, l := range r.s.locations {
		out = append(out, l)
	}
	return pageOf(out, limit, offset), nil
}

func (r *memLocations) Delete(_ context.Context, id string) error {
	delete(r.s.locations, id)
	return nil
}

type memLocationCategories struct{ s *memStore }

func (r *memLocationCategories) Create(_ context.Context, c *entity.LocationCategory) error {
	r.s.locationCategories[c.ID] = c
	return nil
}

func (r *memLocationCategories) GetByID(_ context.Context, id string) (*entity.LocationCategory, error) {
	if c, ok := r.s.locationCategories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memLocationCategories) List(_ context.Context) ([]*entity.LocationCategory, error) {
	out := make([]*entity.LocationCategory, 0, len(r.s.locationCategories))
	for _, c := range r.s.locationCategories {
		out = append(out, c)
	}
	return out, nil
}

func (r *memLocationCategories) Delete(_ context.Context, id string) error {
	delete(r.s.locationCategories, id)
	return nil
}

type memLots struct{ s *memStore }

func (r *memLots) Create(_ context.Context, l *entity.Lot) error {
	for _, existing := range r.s.lots {
		if existing.Code == l.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.lots[l.ID] = l
	return nil
}

func (r *memLots) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	if l, ok := r.s.lots[id]; ok {
		return l, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memLots) GetByCode(_ context.Context, code string) (*entity.Lot, error) {
	for _, l := range r.s.lots {
		if l.Code == code {
			return l, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memLots) List(_ context.Context, limit, offset int) ([]*entity.Lot, error) {
	out := make([]*entity.Lot, 0, len(r.s.lots))
	for _, l := range r.s.lots {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return pageOf(out, limit, offset), nil
}

func (r *memLots) Delete(_ context.Context, id string) error {
	delete(r.s.lots, id)
	return nil
}

// ── Stock items y ajustes ───────────────────────────────────────────────────

type memStockItems struct{ s *memStore }

func (r *memStockItems) Upsert(_ context.Context, item *entity.StockItem) error {
	for _, existing := range r.s.stockItems {
		if existing.LotID == item.LotID && existing.LocationID == item.LocationID {
			existing.Quantity = item.Quantity
			return nil
		}
	}
	r.s.stockItems[item.ID] = item
	return nil
}

func (r *memStockItems) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	if it, ok := r.s.stockItems[id]; ok {
		return it, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memStockItems) GetByLotAndLocation(_ context.Context, lotID, locationID string) (*entity.StockItem, error) {
	for _, it := range r.s.stockItems {
		if it.LotID == lotID && it.LocationID == locationID {
			return it, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memStockItems) List(_ context.Context, limit, offset int) ([]*entity.StockItem, error) {
	out := make([]*entity.StockItem, 0, len(r.s.stockItems))
	for _, it := range r.s.stockItems {
		out = append(out, it)
	}
	return pageOf(out, limit, offset), nil
}

func (r *memStockItems) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	it, ok := r.s.stockItems[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity = quantity
	return nil
}

func (r *memStockItems) Delete(_ context.Context, id string) error {
	delete(r.s.stockItems, id)
	return nil
}

type memAdjustments struct{ s *memStore }

func (r *memAdjustments) Create(_ context.Context, adj *entity.InventoryAdjustment) error {
	r.s.adjustments = append(r.s.adjustments, adj)
	return nil
}

func (r *memAdjustments) ListByStockItem(_ context.Context, stockItemID string) ([]*entity.InventoryAdjustment, error) {
	var out []*entity.InventoryAdjustment
	for _, a := range r.s.adjustments {
		if a.StockItemID == stockItemID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ── Agregación de stock ─────────────────────────────────────────────────────

type memStockQuery struct{ s *memStore }

func (r *memStockQuery) TotalStockByProduct(_ context.Context, productID string) (int64, error) {
	var total int64
	for _, it := range r.s.stockItems {
		if lot, ok := r.s.lots[it.LotID]; ok && lot.ProductID == productID {
			total += it.Quantity
		}
	}
	return total, nil
}

func (r *memStockQuery) TotalStockByLot(_ context.Context, lotID string) (int64, error) {
	var total int64
	for _, it := range r.s.stockItems {
		if it.LotID == lotID {
			total += it.Quantity
		}
	}
	return total, nil
}

func (r *memStockQuery) TotalAtLocation(_ context.Context, locationID string) (int64, error) {
	var total int64
	for _, it := range r.s.stockItems {
		if it.LocationID == locationID {
			total += it.Quantity
		}
	}
	return total, nil
}

func (r *memStockQuery) FactsByProduct(ctx context.Context, productID string) ([]stock.Fact, error) {
	var facts []stock.Fact
	for _, it := range r.s.stockItems {
		lot, ok := r.s.lots[it.LotID]
		if !ok || lot.ProductID != productID {
			continue
		}
		facts = append(facts, stock.Fact{
			ProductID: productID,
			LotID:     lot.ID,
			Quantity:  it.Quantity,
			UnitCost:  lot.UnitCost,
		})
	}
	return facts, nil
}

func (r *memStockQuery) ValuationGroups(ctx context.Context) ([]stock.ProductFacts, error) {
	var out []stock.ProductFacts
	ids := make([]string, 0, len(r.s.products))
	for id := range r.s.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		facts, _ := r.FactsByProduct(ctx, id)
		out = append(out, stock.ProductFacts{
			ProductID:   id,
			ProductName: r.s.products[id].Name,
			Facts:       facts,
		})
	}
	return out, nil
}

func (r *memStockQuery) ProductsAtOrBelowMinStock(ctx context.Context) ([]repository.ProductStockSummary, error) {
	var out []repository.ProductStockSummary
	for id, p := range r.s.products {
		total, _ := r.TotalStockByProduct(ctx, id)
		if total <= p.MinStock {
			out = append(out, repository.ProductStockSummary{
				ProductID:  id,
				Name:       p.Name,
				MinStock:   p.MinStock,
				StockTotal: total,
			})
		}
	}
	return out, nil
}

func (r *memStockQuery) ExpiringLots(ctx context.Context, from, to time.Time) ([]repository.ExpiringLotRow, error) {
	var out []repository.ExpiringLotRow
	for _, lot := range r.s.lots {
		total, _ := r.TotalStockByLot(ctx, lot.ID)
		if total <= 0 || lot.ExpiresAt.Before(from) || lot.ExpiresAt.After(to) {
			continue
		}
		out = append(out, repository.ExpiringLotRow{
			LotID:       lot.ID,
			Code:        lot.Code,
			ProductID:   lot.ProductID,
			ProductName: r.s.products[lot.ProductID].Name,
			ExpiresAt:   lot.ExpiresAt,
			StockTotal:  total,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

func (r *memStockQuery) StockDetailsByProduct(_ context.Context, productID string) ([]repository.StockDetailRow, error) {
	var out []repository.StockDetailRow
	for _, it := range r.s.stockItems {
		lot, ok := r.s.lots[it.LotID]
		if !ok || lot.ProductID != productID {
			continue
		}
		out = append(out, repository.StockDetailRow{
			LocationName: r.s.locations[it.LocationID].Name,
			LotCode:      lot.Code,
			ExpiresAt:    lot.ExpiresAt,
			Quantity:     it.Quantity,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationName < out[j].LocationName })
	return out, nil
}

// ── Órdenes de compra y ventas ──────────────────────────────────────────────

type memOrders struct{ s *memStore }

func (r *memOrders) Create(_ context.Context, o *entity.PurchaseOrder) error {
	r.s.orders[o.ID] = o
	return nil
}

func (r *memOrders) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	if o, ok := r.s.orders[id]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memOrders) List(_ context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	out := make([]*entity.PurchaseOrder, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		out = append(out, o)
	}
	return pageOf(out, limit, offset), nil
}

func (r *memOrders) UpdateStatus(_ context.Context, o *entity.PurchaseOrder) error {
	if _, ok := r.s.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.orders[o.ID] = o
	return nil
}

type memSales struct{ s *memStore }

func (r *memSales) Create(_ context.Context, sale *entity.Sale) error {
	if sale.Date.IsZero() {
		sale.Date = time.Now()
	}
	r.s.sales[sale.ID] = sale
	return nil
}

func (r *memSales) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	if sale, ok := r.s.sales[id]; ok {
		return sale, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memSales) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	out := make([]*entity.Sale, 0, len(r.s.sales))
	for _, sale := range r.s.sales {
		out = append(out, sale)
	}
	return pageOf(out, limit, offset), nil
}

func (r *memSales) SalesSubtotalBetween(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, sale := range r.s.sales {
		if sale.Date.Before(from) || sale.Date.After(to) {
			continue
		}
		for _, d := range sale.Details {
			total = total.Add(d.Subtotal)
		}
	}
	return total, nil
}

func pageOf[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
