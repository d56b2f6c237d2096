package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, before time.Time) error
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	Search(ctx context.Context, query string) ([]*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetAll(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	GetInRange(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error)
	GetAll(ctx context.Context) ([]*domain.Appointment, error)
	Update(ctx context.Context, appointment *domain.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	GetAll(ctx context.Context, customerID *uuid.UUID) ([]*domain.Invoice, error)
	Update(ctx context.Context, invoice *domain.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PromotionRepository interface {
	Create(ctx context.Context, promotion *domain.Promotion) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Promotion, error)
	GetAll(ctx context.Context) ([]*domain.Promotion, error)
	Update(ctx context.Context, promotion *domain.Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SettingRepository interface {
	Upsert(ctx context.Context, setting *domain.Setting) error
	Get(ctx context.Context, key string) (*domain.Setting, error)
	GetAll(ctx context.Context) ([]*domain.Setting, error)
	Delete(ctx context.Context, key string) error
}

type Repositories struct {
	User        UserRepository
	Session     SessionRepository
	Customer    CustomerRepository
	Product     ProductRepository
	Appointment AppointmentRepository
	Invoice     InvoiceRepository
	Promotion   PromotionRepository
	Setting     SettingRepository
}
