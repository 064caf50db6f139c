package ports

import (
	"context"

	"github.com/barracks/account-service/internal/core/domain"
)

// RegisterInput carries the data needed to create an account. Password
// confirmation is checked at the HTTP boundary before this struct is built.
type RegisterInput struct {
	Email    string
	Name     string
	Phone    string
	Password string
}

// AuthService handles credential verification and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Token, *domain.User, error)

	// Login returns a fresh token on success. All failure paths return
	// domain.ErrInvalidCredentials with comparable latency, whether the
	// email exists or not.
	Login(ctx context.Context, email, password string) (*domain.Token, *domain.User, error)

	// ChangePassword re-verifies the old password, writes the new hash,
	// revokes every existing token for the identity and returns a
	// replacement token.
	ChangePassword(ctx context.Context, user *domain.User, oldPassword, newPassword string) (*domain.Token, error)

	// Logout revokes the given token; never an error for unknown or
	// already-revoked values.
	Logout(ctx context.Context, tokenValue string) error
}
