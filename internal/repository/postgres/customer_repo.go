package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *customerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Search returns customers whose name or email contains query,
// or all customers when query is empty.
func (r *customerRepository) Search(ctx context.Context, query string) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	tx := r.db.WithContext(ctx).Order("name asc")
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if err := tx.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Customer{}, "id = ?", id).Error
}
