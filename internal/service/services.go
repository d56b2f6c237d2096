package service

import (
	"github.com/ray/bizdesk/internal/config"
	"github.com/ray/bizdesk/internal/repository"
	"gorm.io/gorm"
)

type Services struct {
	Auth    *AuthService
	Product *ProductService
	Invoice *InvoiceService
	Backup  *BackupService
}

func NewServices(repos *repository.Repositories, db *gorm.DB, cfg *config.Config) *Services {
	return &Services{
		Auth:    NewAuthService(repos.User, repos.Session, cfg),
		Product: NewProductService(repos.Product),
		Invoice: NewInvoiceService(repos.Invoice, repos.Customer),
		Backup:  NewBackupService(db, cfg.BackupDir),
	}
}
