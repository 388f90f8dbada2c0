package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// TokenBlacklistStore implements store.TokenBlacklist on a revoked_tokens
// table. Persisting revocations in the primary store keeps them across
// restarts and shared between instances, unlike in-process state.
type TokenBlacklistStore struct {
	db store.DBTX
}

// NewTokenBlacklistStore creates a new PostgreSQL implementation of the
// TokenBlacklist interface.
func NewTokenBlacklistStore(db store.DBTX) *TokenBlacklistStore {
	return &TokenBlacklistStore{db: db}
}

// Ensure TokenBlacklistStore implements store.TokenBlacklist interface
var _ store.TokenBlacklist = (*TokenBlacklistStore)(nil)

// Revoke implements store.TokenBlacklist.Revoke
func (s *TokenBlacklistStore) Revoke(
	ctx context.Context,
	jti string,
	userID uuid.UUID,
	expiresAt time.Time,
) error {
	log := logger.FromContext(ctx)

	// Revoking twice must stay a no-op, hence ON CONFLICT DO NOTHING.
	query := `
		INSERT INTO revoked_tokens (jti, user_id, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (jti) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query, jti, userID, expiresAt, time.Now().UTC())
	if err != nil {
		log.Error("failed to revoke token",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to revoke token: %w", MapError(err))
	}

	return nil
}

// IsRevoked implements store.TokenBlacklist.IsRevoked
func (s *TokenBlacklistStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", MapError(err))
	}
	return revoked, nil
}

// PurgeExpired implements store.TokenBlacklist.PurgeExpired
func (s *TokenBlacklistStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired revocations: %w", MapError(err))
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return purged, nil
}
