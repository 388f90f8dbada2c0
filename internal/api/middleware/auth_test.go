package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrackhq/tasktrack-api/internal/mocks"
	"github.com/tasktrackhq/tasktrack-api/internal/service/auth"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	validJWT := &mocks.MockJWTService{
		ValidateTokenFunc: func(ctx context.Context, token string) (*auth.Claims, error) {
			if token == "valid-token" {
				return &auth.Claims{UserID: userID, TokenType: "access"}, nil
			}
			return nil, auth.ErrInvalidToken
		},
	}

	tests := []struct {
		name        string
		jwtService  auth.JWTService
		setupReq    func(r *http.Request)
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "valid bearer token",
			jwtService: validJWT,
			setupReq: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer valid-token")
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid cookie token",
			jwtService: validJWT,
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: auth.AccessTokenCookieName, Value: "valid-token"})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "no token",
			jwtService:  validJWT,
			setupReq:    func(r *http.Request) {},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Authentication required",
		},
		{
			name:       "malformed authorization header",
			jwtService: validJWT,
			setupReq: func(r *http.Request) {
				r.Header.Set("Authorization", "NotBearer token")
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid authorization format",
		},
		{
			name: "expired token",
			jwtService: &mocks.MockJWTService{
				ValidateTokenFunc: func(ctx context.Context, token string) (*auth.Claims, error) {
					return nil, auth.ErrExpiredToken
				},
			},
			setupReq: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer stale-token")
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token expired",
		},
		{
			name:       "invalid token",
			jwtService: validJWT,
			setupReq: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer forged-token")
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid token",
		},
		{
			name: "refresh token presented as access token",
			jwtService: &mocks.MockJWTService{
				ValidateTokenFunc: func(ctx context.Context, token string) (*auth.Claims, error) {
					return nil, auth.ErrWrongTokenType
				},
			},
			setupReq: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer refresh-token")
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid token",
		},
		{
			name: "unexpected validation failure",
			jwtService: &mocks.MockJWTService{
				ValidateTokenFunc: func(ctx context.Context, token string) (*auth.Claims, error) {
					return nil, errors.New("key store unavailable")
				},
			},
			setupReq: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer whatever")
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Authentication error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotUserID uuid.UUID
			var handlerCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				id, ok := GetUserID(r)
				require.True(t, ok)
				gotUserID = id
				w.WriteHeader(http.StatusOK)
			})

			middleware := NewAuthMiddleware(tt.jwtService, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			tt.setupReq(req)
			rec := httptest.NewRecorder()

			middleware.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.True(t, handlerCalled)
				assert.Equal(t, userID, gotUserID)
			} else {
				assert.False(t, handlerCalled)

				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantMessage, body["error"])
			}
		})
	}
}

func TestGetUserIDMissing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetUserID(req)
	assert.False(t, ok)
}
