package postgres

import (
	"context"

	"github.com/ray/bizdesk/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *settingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
}

func (r *settingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	var setting domain.Setting
	err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) GetAll(ctx context.Context) ([]*domain.Setting, error) {
	var settings []*domain.Setting
	if err := r.db.WithContext(ctx).Order("key asc").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&domain.Setting{}, "key = ?", key).Error
}
