package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/lib/sl"
	"github.com/vedran77/ripple/internal/lib/token"
	"github.com/vedran77/ripple/internal/repository"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Auth gates protected routes. A request passes when it carries a bearer
// token that is present in the whitelist, not expired, and carries a valid
// signature. Expired whitelist entries are deleted on sight.
func Auth(tokenRepo repository.TokenRepository, accessSecret string, logger *slog.Logger) func(http.Handler) http.Handler {
	secret := []byte(accessSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "Missing or invalid token")
				return
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")

			entry, err := tokenRepo.Get(r.Context(), tokenStr)
			if err != nil {
				logger.Error("token lookup failed", sl.Err(err))
				unauthorized(w, "Unauthorized")
				return
			}
			if entry == nil {
				unauthorized(w, "Unauthorized")
				return
			}

			if entry.Expired(time.Now()) {
				if err := tokenRepo.Delete(r.Context(), tokenStr); err != nil {
					logger.Error("deleting expired token", sl.Err(err))
				}
				unauthorized(w, "Token expired")
				return
			}

			userID, err := token.Verify(tokenStr, secret)
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(ctx context.Context) uuid.UUID {
	return ctx.Value(UserIDKey).(uuid.UUID)
}
