package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/service"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"

	// SessionCookieName carries the opaque session token; HTTP-only so
	// scripts never see it.
	SessionCookieName = "bizdesk_session"
)

// Auth resolves the session cookie and stores the authenticated user's ID
// in the request context. Requests without a live session get 401.
func Auth(authService *service.AuthService, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := authService.ResolveSession(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, domain.ErrNoSession) {
					log.Error().Err(err).Msg("session resolution failed")
					writeMessage(w, http.StatusInternalServerError, "internal server error")
					return
				}
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func unauthorized(w http.ResponseWriter) {
	writeMessage(w, http.StatusUnauthorized, "authentication required")
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
