package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *productRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	if err := r.db.WithContext(ctx).Order("name asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// AdjustStock applies delta to the stock level inside a transaction. Drives
// the check and the write through the same row lock so concurrent
// adjustments cannot push stock negative.
func (r *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		if product.Stock+delta < 0 {
			return domain.ErrInsufficientStock
		}
		product.Stock += delta
		return tx.Save(&product).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id).Error
}
