package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mercamax/mercamax-api/internal/application/dto"
	"github.com/mercamax/mercamax-api/internal/domain"
	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
)

// SupplierUseCase maneja el catálogo de proveedores.
type SupplierUseCase struct {
	suppliers repository.SupplierRepository
}

func NewSupplierUseCase(suppliers repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{suppliers: suppliers}
}

func (uc *SupplierUseCase) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if req.Nombre == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	supplier := &entity.Supplier{
		ID:          uuid.New().String(),
		Name:        req.Nombre,
		ContactName: req.ContactoNombre,
		Phone:       req.Telefono,
		Email:       req.Email,
	}
	if err := uc.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	resp := toSupplierResponse(supplier)
	return &resp, nil
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSupplierResponse(supplier)
	return &resp, nil
}

func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.SupplierResponse, error) {
	page.DefaultPage()
	suppliers, err := uc.suppliers.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, id string, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := uc.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	supplier.Name = req.Nombre
	supplier.ContactName = req.ContactoNombre
	supplier.Phone = req.Telefono
	supplier.Email = req.Email
	if err := uc.suppliers.Update(ctx, supplier); err != nil {
		return nil, err
	}
	resp := toSupplierResponse(supplier)
	return &resp, nil
}

func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.suppliers.Delete(ctx, id)
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:             s.ID,
		Nombre:         s.Name,
		ContactoNombre: s.ContactName,
		Telefono:       s.Phone,
		Email:          s.Email,
	}
}
