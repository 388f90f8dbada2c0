package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenBlacklist records revoked refresh token identifiers (jti claims).
// A revoked token can never mint new access tokens again. Entries are kept
// until the underlying token's own expiry has passed, after which they are
// useless and may be purged.
type TokenBlacklist interface {
	// Revoke records the token identifier as revoked. Revoking an
	// already-revoked identifier is a no-op.
	Revoke(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error

	// IsRevoked reports whether the token identifier has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// PurgeExpired removes entries whose tokens have expired on their own.
	// Returns the number of entries removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
