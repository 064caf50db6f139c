package ports

import (
	"context"

	"github.com/barracks/account-service/internal/core/domain"
)

// TokenRepository persists issued tokens. Implementations must make Revoke
// atomic per token (no lost update between a concurrent logout and a
// validate) and may garbage-collect records lazily after expiry.
type TokenRepository interface {
	Save(ctx context.Context, token *domain.Token) error

	// Find returns the stored token record, including revoked and expired
	// ones that have not been garbage-collected yet. Returns
	// domain.ErrTokenNotFound when no record exists.
	Find(ctx context.Context, value string) (*domain.Token, error)

	// Revoke marks a token revoked. Revoking an unknown or already-revoked
	// token is not an error.
	Revoke(ctx context.Context, value string) error

	// RevokeAll revokes every live token owned by the identity and reports
	// how many were revoked.
	RevokeAll(ctx context.Context, userID string) (int, error)
}
