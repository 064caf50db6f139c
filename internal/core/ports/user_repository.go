package ports

import (
	"context"

	"github.com/barracks/account-service/internal/core/domain"
)

// UserUpdate is the explicit allow-list of mutable identity fields. Nil
// pointers mean "leave unchanged". Role is only populated by callers that
// already passed the update-role policy check; the repository never
// accepts a raw field map.
type UserUpdate struct {
	Name       *string
	Phone      *string
	ProfilePic *string
	Role       *domain.Role
}

// UserRepository defines the persistence contract for identities.
type UserRepository interface {
	// Create inserts a new identity. Email uniqueness is enforced by the
	// store itself (unique index on the normalized email), never by a
	// check-then-insert in application code.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByEmail looks up by normalized email, case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)

	// SetPasswordHash replaces the stored digest. Kept separate from Update
	// so the profile allow-list can never touch the credential.
	SetPasswordHash(ctx context.Context, id, hash string) error

	Delete(ctx context.Context, id string) error
}
