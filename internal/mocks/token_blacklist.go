package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockTokenBlacklist provides a mock implementation of store.TokenBlacklist
// for testing. With no function fields set it behaves as a working in-memory
// blacklist, which lets refresh rotation tests exercise real revocation flow.
type MockTokenBlacklist struct {
	RevokeFunc       func(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error
	IsRevokedFunc    func(ctx context.Context, jti string) (bool, error)
	PurgeExpiredFunc func(ctx context.Context, now time.Time) (int64, error)

	mu      sync.Mutex
	revoked map[string]time.Time
}

// Revoke implements the store.TokenBlacklist interface for testing
func (m *MockTokenBlacklist) Revoke(
	ctx context.Context,
	jti string,
	userID uuid.UUID,
	expiresAt time.Time,
) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, jti, userID, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]time.Time)
	}
	m.revoked[jti] = expiresAt
	return nil
}

// IsRevoked implements the store.TokenBlacklist interface for testing
func (m *MockTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, jti)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

// PurgeExpired implements the store.TokenBlacklist interface for testing
func (m *MockTokenBlacklist) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.PurgeExpiredFunc != nil {
		return m.PurgeExpiredFunc(ctx, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for jti, exp := range m.revoked {
		if exp.Before(now) {
			delete(m.revoked, jti)
			n++
		}
	}
	return n, nil
}
