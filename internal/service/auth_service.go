package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/api/metrics"
	"github.com/ray/bizdesk/internal/config"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/password"
	"github.com/ray/bizdesk/internal/repository"
	"gorm.io/gorm"
)

const wsTicketTTL = time.Minute

// AuthService owns user credentials and sessions. Handlers hold no state of
// their own; everything flows through here into the two stores.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cfg         *config.Config
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

type RegisterInput struct {
	Username string
	Name     string
	Email    string
	Phone    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// AuthResult carries the authenticated user and the opaque session token to
// be set as an HTTP-only cookie.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if _, err := s.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	}
	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hashed,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Concurrent registrations race at the unique indexes; exactly one
		// wins. Look up which field collided so the message is accurate.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if _, lookupErr := s.userRepo.GetByUsername(ctx, input.Username); lookupErr == nil {
				return nil, domain.ErrUsernameTaken
			}
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	return s.newSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.newSession(ctx, user)
}

// Logout destroys the session behind token. Unknown tokens are not an
// error, so calling it twice is fine.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// ResolveSession returns the user owning a live session, or ErrNoSession if
// the token is unknown or the session has expired.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNoSession
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoSession
		}
		return nil, err
	}

	if session.Expired(time.Now()) {
		_ = s.sessionRepo.DeleteByToken(ctx, token)
		return nil, domain.ErrNoSession
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoSession
		}
		return nil, err
	}

	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// PurgeExpiredSessions removes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	return s.sessionRepo.DeleteExpired(ctx, time.Now())
}

func (s *AuthService) newSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.New(),
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL()),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	metrics.SessionsCreatedTotal.Inc()

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// generateToken returns 32 random bytes hex encoded: opaque, unguessable,
// carries no decodable structure.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// IssueWSTicket mints a short-lived token for the WebSocket handshake,
// where the session cookie cannot be attached by browser clients.
func (s *AuthService) IssueWSTicket(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"exp": time.Now().Add(wsTicketTTL).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.WSTicketSecret))
}

func (s *AuthService) ValidateWSTicket(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.WSTicketSecret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, errors.New("invalid ticket")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}
