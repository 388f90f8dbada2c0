// Package mocks provides hand-written test doubles for the store and
// service interfaces. Each mock exposes function fields for per-test
// behavior, with safe defaults.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/service/auth"
)

// MockJWTService provides a mock implementation of auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFunc        func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFunc        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFunc func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFunc func(ctx context.Context, tokenString string) (*auth.Claims, error)

	AccessLifetime  time.Duration
	RefreshLifetime time.Duration
}

// GenerateToken implements the auth.JWTService interface for testing
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, userID)
	}
	return "mock-access-token", nil
}

// ValidateToken implements the auth.JWTService interface for testing
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

// GenerateRefreshToken implements the auth.JWTService interface for testing
func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(ctx, userID)
	}
	return "mock-refresh-token", nil
}

// ValidateRefreshToken implements the auth.JWTService interface for testing
func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(ctx, tokenString)
	}
	return nil, auth.ErrInvalidRefreshToken
}

// AccessTokenLifetime implements the auth.JWTService interface for testing
func (m *MockJWTService) AccessTokenLifetime() time.Duration {
	if m.AccessLifetime != 0 {
		return m.AccessLifetime
	}
	return 30 * time.Minute
}

// RefreshTokenLifetime implements the auth.JWTService interface for testing
func (m *MockJWTService) RefreshTokenLifetime() time.Duration {
	if m.RefreshLifetime != 0 {
		return m.RefreshLifetime
	}
	return 7 * 24 * time.Hour
}
