package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"gorm.io/gorm"
)

type promotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) *promotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) Create(ctx context.Context, promotion *domain.Promotion) error {
	return r.db.WithContext(ctx).Create(promotion).Error
}

func (r *promotionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Promotion, error) {
	var promotion domain.Promotion
	err := r.db.WithContext(ctx).First(&promotion, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *promotionRepository) GetAll(ctx context.Context) ([]*domain.Promotion, error) {
	var promotions []*domain.Promotion
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

func (r *promotionRepository) Update(ctx context.Context, promotion *domain.Promotion) error {
	return r.db.WithContext(ctx).Save(promotion).Error
}

func (r *promotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Promotion{}, "id = ?", id).Error
}
