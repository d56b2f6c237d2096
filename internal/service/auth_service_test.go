package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/config"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/service"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// racingUserRepo simulates a concurrent registration landing between the
// pre-insert checks and the insert: lookups miss until Create has failed,
// after which the colliding field becomes visible.
type racingUserRepo struct {
	usernameCollides bool
	inserted         bool
}

func (r *racingUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.inserted = true
	return gorm.ErrDuplicatedKey
}

func (r *racingUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *racingUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if r.inserted && r.usernameCollides {
		return &domain.User{ID: uuid.New(), Username: username}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *racingUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, gorm.ErrRecordNotFound
}

type noopSessionRepo struct{}

func (noopSessionRepo) Create(ctx context.Context, session *domain.Session) error { return nil }
func (noopSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	return nil, gorm.ErrRecordNotFound
}
func (noopSessionRepo) DeleteByToken(ctx context.Context, token string) error { return nil }
func (noopSessionRepo) DeleteExpired(ctx context.Context, before time.Time) error {
	return nil
}

// A duplicate-key failure at insert time must name the field that actually
// collided, not assume it was the username.
func TestRegisterRaceReportsCollidingField(t *testing.T) {
	cfg := &config.Config{SessionTTLHours: 1, WSTicketSecret: "test-secret"}
	input := service.RegisterInput{
		Username: "newcomer",
		Name:     "New Comer",
		Email:    "newcomer@example.com",
		Phone:    "5550001111",
		Password: "secret1",
	}

	t.Run("username collided", func(t *testing.T) {
		svc := service.NewAuthService(&racingUserRepo{usernameCollides: true}, noopSessionRepo{}, cfg)
		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("email collided", func(t *testing.T) {
		svc := service.NewAuthService(&racingUserRepo{}, noopSessionRepo{}, cfg)
		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})
}
