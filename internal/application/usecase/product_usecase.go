package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
	"github.com/mercamax/mercamax-api/internal/domain/stock"
	"github.com/mercamax/mercamax-api/pkg/logger"
)

// ProductUseCase maneja el catálogo de productos. El stock total y el costo
// promedio ponderado nunca se guardan: se derivan de los stock items al leer.
type ProductUseCase struct {
	products   repository.ProductRepository
	categories repository.ProductCategoryRepository
	suppliers  repository.SupplierRepository
	stockQuery repository.StockQueryRepository
	log        *logger.Logger
}

// NewProductUseCase construye el caso de uso de productos.
func NewProductUseCase(
	products repository.ProductRepository,
	categories repository.ProductCategoryRepository,
	suppliers repository.SupplierRepository,
	stockQuery repository.StockQueryRepository,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		products:   products,
		categories: categories,
		suppliers:  suppliers,
		stockQuery: stockQuery,
		log:        log,
	}
}

// Create da de alta un producto.
func (uc *ProductUseCase) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.Nombre == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if req.CodigoBarras == "" {
		return nil, fmt.Errorf("%w: el código de barras es obligatorio", domain.ErrInvalidInput)
	}
	if req.PrecioVenta.IsNegative() {
		return nil, fmt.Errorf("%w: el precio de venta no puede ser negativo", domain.ErrInvalidInput)
	}
	if req.StockMinimo < 0 {
		return nil, fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrInvalidInput)
	}

	if _, err := uc.suppliers.GetByID(ctx, req.ProveedorID); err != nil {
		return nil, fmt.Errorf("proveedor %s: %w", req.ProveedorID, err)
	}
	var categoryName string
	if req.CategoriaID != "" {
		cat, err := uc.categories.GetByID(ctx, req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoría %s: %w", req.CategoriaID, err)
		}
		categoryName = cat.Name
	}

	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        req.Nombre,
		Barcode:     req.CodigoBarras,
		Description: req.Descripcion,
		Price:       req.PrecioVenta,
		MinStock:    req.StockMinimo,
		CategoryID:  req.CategoriaID,
		SupplierID:  req.ProveedorID,
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, err
	}

	uc.log.Info().Str("producto", product.ID).Str("nombre", product.Name).Msg("producto creado")

	resp := toProductResponse(product, categoryName, nil)
	return &resp, nil
}

// GetByID devuelve el producto con su stock y costo promedio derivados.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	facts, err := uc.stockQuery.FactsByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(product, uc.categoryName(ctx, product.CategoryID), facts)
	return &resp, nil
}

// GetByBarcode busca un producto por su código de barras (punto de venta).
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	facts, err := uc.stockQuery.FactsByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(product, uc.categoryName(ctx, product.CategoryID), facts)
	return &resp, nil
}

// List devuelve una página de productos con sus derivados.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	products, err := uc.products.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	// Una sola consulta de agregación para toda la página.
	groups, err := uc.stockQuery.ValuationGroups(ctx)
	if err != nil {
		return nil, err
	}
	factsByProduct := make(map[string][]stock.Fact, len(groups))
	for _, g := range groups {
		factsByProduct[g.ProductID] = g.Facts
	}

	categoryNames, err := uc.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p, categoryNames[p.CategoryID], factsByProduct[p.ID]))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update aplica una actualización parcial.
func (uc *ProductUseCase) Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		if *req.Nombre == "" {
			return nil, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
		}
		product.Name = *req.Nombre
	}
	if req.Descripcion != nil {
		product.Description = *req.Descripcion
	}
	if req.PrecioVenta != nil {
		if req.PrecioVenta.IsNegative() {
			return nil, fmt.Errorf("%w: el precio de venta no puede ser negativo", domain.ErrInvalidInput)
		}
		product.Price = *req.PrecioVenta
	}
	if req.StockMinimo != nil {
		if *req.StockMinimo < 0 {
			return nil, fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrInvalidInput)
		}
		product.MinStock = *req.StockMinimo
	}
	if req.CategoriaID != nil {
		if *req.CategoriaID != "" {
			if _, err := uc.categories.GetByID(ctx, *req.CategoriaID); err != nil {
				return nil, fmt.Errorf("categoría %s: %w", *req.CategoriaID, err)
			}
		}
		product.CategoryID = *req.CategoriaID
	}
	if req.ProveedorID != nil {
		if _, err := uc.suppliers.GetByID(ctx, *req.ProveedorID); err != nil {
			return nil, fmt.Errorf("proveedor %s: %w", *req.ProveedorID, err)
		}
		product.SupplierID = *req.ProveedorID
	}

	if err := uc.products.Update(ctx, product); err != nil {
		return nil, err
	}

	facts, err := uc.stockQuery.FactsByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(product, uc.categoryName(ctx, product.CategoryID), facts)
	return &resp, nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.products.Delete(ctx, id)
}

// StockDetails devuelve la distribución del stock del producto por ubicación
// y lote.
func (uc *ProductUseCase) StockDetails(ctx context.Context, id string) ([]dto.StockDetailResponse, error) {
	if _, err := uc.products.GetByID(ctx, id); err != nil {
		return nil, err
	}
	rows, err := uc.stockQuery.StockDetailsByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockDetailResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockDetailResponse{
			UbicacionNombre: r.LocationName,
			LoteCodigo:      r.LotCode,
			FechaCaducidad:  r.ExpiresAt.Format("2006-01-02"),
			Cantidad:        r.Quantity,
		})
	}
	return out, nil
}

// Stats calcula las estadísticas generales del inventario: valor potencial
// de venta, costo del stock a costo promedio y la ganancia estimada.
func (uc *ProductUseCase) Stats(ctx context.Context) (*dto.InventoryStatsResponse, error) {
	products, err := uc.products.List(ctx, 10000, 0)
	if err != nil {
		return nil, err
	}
	groups, err := uc.stockQuery.ValuationGroups(ctx)
	if err != nil {
		return nil, err
	}
	factsByProduct := make(map[string][]stock.Fact, len(groups))
	for _, g := range groups {
		factsByProduct[g.ProductID] = g.Facts
	}

	saleValue := decimal.Zero
	costValue := decimal.Zero
	for _, p := range products {
		facts := factsByProduct[p.ID]
		total := stock.TotalStock(facts)
		if total <= 0 {
			continue
		}
		saleValue = saleValue.Add(p.Price.Mul(decimal.NewFromInt(total)))
		costValue = costValue.Add(stock.TotalValue(facts))
	}

	return &dto.InventoryStatsResponse{
		ValorEnStock:     saleValue.Round(2),
		CostoDeStock:     costValue.Round(2),
		GananciaEstimada: saleValue.Sub(costValue).Round(2),
		TotalProductos:   int64(len(products)),
	}, nil
}

func (uc *ProductUseCase) categoryName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	cat, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return cat.Name
}

func (uc *ProductUseCase) categoryNames(ctx context.Context) (map[string]string, error) {
	cats, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}

func toProductResponse(p *entity.Product, categoryName string, facts []stock.Fact) dto.ProductResponse {
	return dto.ProductResponse{
		ID:              p.ID,
		Nombre:          p.Name,
		CodigoBarras:    p.Barcode,
		Descripcion:     p.Description,
		PrecioVenta:     p.Price,
		StockMinimo:     p.MinStock,
		CategoriaID:     p.CategoryID,
		CategoriaNombre: categoryName,
		ProveedorID:     p.SupplierID,
		StockTotal:      stock.TotalStock(facts),
		CostoPromedio:   stock.WeightedAverageCost(facts).Round(2),
	}
}
