package ports

import (
	"context"

	"github.com/barracks/account-service/internal/core/domain"
)

// ProfileUpdateInput is the allow-listed set of fields a profile update may
// touch. Role is ignored unless the acting identity passes the update-role
// policy check.
type ProfileUpdateInput struct {
	Name  *string
	Phone *string
	Role  *domain.Role
}

// UserService covers profile reads and the policy-gated admin operations.
type UserService interface {
	GetProfile(ctx context.Context, acting *domain.User, targetID string) (*domain.User, error)
	ListUsers(ctx context.Context, acting *domain.User) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, acting *domain.User, targetID string, input ProfileUpdateInput) (*domain.User, error)

	// Impersonate issues a token for the target identity. Elevated roles only.
	Impersonate(ctx context.Context, acting *domain.User, targetID string) (*domain.Token, *domain.User, error)

	// SetProfilePicture stores a sanitized picture reference on the acting
	// identity.
	SetProfilePicture(ctx context.Context, acting *domain.User, filename, pictureURL string) (*domain.User, error)

	// DeleteAccount revokes all of the identity's tokens, then removes the
	// identity. The ordering is explicit; Mongo gives us no cascade.
	DeleteAccount(ctx context.Context, acting *domain.User) error
}
