package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/repository"
	"gorm.io/gorm"
)

type ProductService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

type ProductInput struct {
	Name        string
	SKU         string
	Description string
	PriceCents  int64
	Stock       int
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		SKU:         input.SKU,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrSKUTaken
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *ProductService) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.GetAll(ctx)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.SKU = input.SKU
	product.Description = input.Description
	product.PriceCents = input.PriceCents
	product.Stock = input.Stock
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrSKUTaken
		}
		return nil, err
	}
	return product, nil
}

// AdjustStock applies a signed delta to the stock level. The repository
// rejects adjustments that would drive stock negative.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Product, error) {
	return s.productRepo.AdjustStock(ctx, id, delta)
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}
