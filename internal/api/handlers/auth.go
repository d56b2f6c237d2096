package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ray/bizdesk/internal/api/middleware"
	"github.com/ray/bizdesk/internal/config"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/service"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
	log         zerolog.Logger
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg, log: log}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Name     string `json:"name" validate:"required,max=128"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,numeric,min=10,max=20"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is a User stripped down to its public fields. The password
// hash never appears in any response body.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		h.log.Error().Err(err).Str("op", "auth.register").Msg("registration failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setSessionCookie(w, result.Token, result.ExpiresAt)
	respondJSON(w, http.StatusCreated, newUserResponse(result.User))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		// Same message whether the username or the password was wrong.
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
			return
		}
		h.log.Error().Err(err).Str("op", "auth.login").Msg("login failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setSessionCookie(w, result.Token, result.ExpiresAt)
	respondJSON(w, http.StatusOK, newUserResponse(result.User))
}

// Logout destroys the current session and clears the cookie. Calling it
// without a session is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		token = cookie.Value
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		h.log.Error().Err(err).Str("op", "auth.logout").Msg("logout failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.clearSessionCookie(w)
	respondMessage(w, http.StatusOK, "logged out")
}

func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		respondStorageError(w, h.log, "auth.current_user", err)
		return
	}

	respondJSON(w, http.StatusOK, newUserResponse(user))
}

// WSTicket mints a short-lived token the browser can pass on the WebSocket
// dial, where cookies and headers are out of reach of client scripts.
func (h *AuthHandler) WSTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		respondStorageError(w, h.log, "auth.ws_ticket", err)
		return
	}

	ticket, err := h.authService.IssueWSTicket(user)
	if err != nil {
		h.log.Error().Err(err).Str("op", "auth.ws_ticket").Msg("ticket signing failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"ticket": ticket})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	})
}
