package postgres

import (
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.Customer{},
		&domain.Product{},
		&domain.Appointment{},
		&domain.Invoice{},
		&domain.Promotion{},
		&domain.Setting{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:        NewUserRepository(db),
		Session:     NewSessionRepository(db),
		Customer:    NewCustomerRepository(db),
		Product:     NewProductRepository(db),
		Appointment: NewAppointmentRepository(db),
		Invoice:     NewInvoiceRepository(db),
		Promotion:   NewPromotionRepository(db),
		Setting:     NewSettingRepository(db),
	}
}
