package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *appointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	var appointment domain.Appointment
	err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) GetInRange(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	var appointments []*domain.Appointment
	err := r.db.WithContext(ctx).
		Where("starts_at >= ? AND starts_at < ?", from, to).
		Order("starts_at asc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) GetAll(ctx context.Context) ([]*domain.Appointment, error) {
	var appointments []*domain.Appointment
	if err := r.db.WithContext(ctx).Order("starts_at asc").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Appointment{}, "id = ?", id).Error
}
