package ports

import (
	"context"

	"github.com/barracks/account-service/internal/core/domain"
)

// TokenIssuer issues and validates opaque bearer tokens.
type TokenIssuer interface {
	// Issue creates a fresh token for the identity with the configured TTL.
	Issue(ctx context.Context, user *domain.User) (*domain.Token, error)

	// Validate resolves a bearer value to its identity. Any failure
	// (unknown, expired, revoked) surfaces as domain.ErrInvalidToken.
	Validate(ctx context.Context, value string) (*domain.User, error)

	// Revoke invalidates one token; idempotent.
	Revoke(ctx context.Context, value string) error

	// RevokeAll invalidates every token owned by the identity. Used on
	// password change and logout-everywhere.
	RevokeAll(ctx context.Context, userID string) error
}
