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

// CategoryUseCase maneja las categorías de producto.
type CategoryUseCase struct {
	categories repository.ProductCategoryRepository
}

func NewCategoryUseCase(categories repository.ProductCategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categories: categories}
}

func (uc *CategoryUseCase) Create(ctx context.Context, nombre string) (*dto.CategoryResponse, error) {
	if nombre == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	category := &entity.ProductCategory{ID: uuid.New().String(), Name: nombre}
	if err := uc.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: category.ID, Nombre: category.Name}, nil
}

func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{ID: c.ID, Nombre: c.Name})
	}
	return out, nil
}

func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.categories.Delete(ctx, id)
}
