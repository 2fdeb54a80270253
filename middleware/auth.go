package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/career-day/services"
)

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityResolver is satisfied by services.AuthService.
type IdentityResolver interface {
	Resolve(ctx context.Context, accessToken string) (*services.Identity, error)
}

// Authenticate проверяет Bearer-токен и кладёт Identity в контекст запроса.
// Неактивный пользователь получает 403, остальные ошибки 401.
func Authenticate(resolver IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, http.StatusUnauthorized, "Not authenticated", services.KindAuth)
				return
			}

			identity, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrUserInactive):
					writeError(w, http.StatusForbidden, "Inactive user", services.KindForbidden)
				case errors.Is(err, services.ErrAuthenticationFailed):
					w.Header().Set("WWW-Authenticate", "Bearer")
					writeError(w, http.StatusUnauthorized, "Could not validate credentials", services.KindAuth)
				default:
					logger.ErrorContext(r.Context(), "Failed to resolve identity", slog.Any("error", err))
					writeError(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request", services.KindInternal)
				}
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := GetIdentityFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated", services.KindAuth)
			return
		}
		if !identity.IsAdmin {
			writeError(w, http.StatusForbidden, "Admin access required", services.KindForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeError(w http.ResponseWriter, status int, message string, kind services.Kind) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "kind": string(kind)})
}
