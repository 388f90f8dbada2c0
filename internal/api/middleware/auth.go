package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
	"github.com/tasktrackhq/tasktrack-api/internal/redact"
	"github.com/tasktrackhq/tasktrack-api/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for routes. Tokens are accepted
// from the Authorization header or the access_token cookie; the header takes
// precedence when both are present.
type AuthMiddleware struct {
	jwtService  auth.JWTService
	tokenSource auth.TokenSource
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
// A nil tokenSource falls back to the default header-then-cookie chain.
func NewAuthMiddleware(jwtService auth.JWTService, tokenSource auth.TokenSource) *AuthMiddleware {
	if tokenSource == nil {
		tokenSource = auth.DefaultTokenSource()
	}
	return &AuthMiddleware{
		jwtService:  jwtService,
		tokenSource: tokenSource,
	}
}

// Authenticate validates JWT tokens and adds the user ID to the request
// context for authorized requests. Requests without a valid access token are
// rejected before reaching any resource logic.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.tokenSource.AccessToken(r)
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			} else {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			}
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongTokenType):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}
