package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/barracks/account-service/internal/core/domain"
	"github.com/barracks/account-service/internal/core/policy"
	"github.com/barracks/account-service/internal/core/ports"
)

// UserService implements profile reads and the policy-gated admin
// operations. Every decision goes through policy.Decide; nothing in here
// checks roles or ownership directly.
type UserService struct {
	users  ports.UserRepository
	issuer ports.TokenIssuer
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, issuer ports.TokenIssuer, logger zerolog.Logger) *UserService {
	return &UserService{users: users, issuer: issuer, logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, acting *domain.User, targetID string) (*domain.User, error) {
	// Policy first, on IDs alone, so a denied caller learns nothing about
	// whether the target exists.
	if policy.Decide(acting, &domain.User{ID: targetID}, policy.ActionReadOwn) != policy.Allow {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByID(ctx, targetID)
}

func (s *UserService) ListUsers(ctx context.Context, acting *domain.User) ([]*domain.User, error) {
	if policy.Decide(acting, nil, policy.ActionListAll) != policy.Allow {
		return nil, domain.ErrForbidden
	}
	return s.users.FindAll(ctx)
}

func (s *UserService) UpdateProfile(ctx context.Context, acting *domain.User, targetID string, input ports.ProfileUpdateInput) (*domain.User, error) {
	if policy.Decide(acting, &domain.User{ID: targetID}, policy.ActionUpdateOwn) != policy.Allow {
		return nil, domain.ErrForbidden
	}

	update := ports.UserUpdate{
		Name:  input.Name,
		Phone: input.Phone,
	}

	// A role change is a separate action with its own rule; a plain owner
	// asking for one is silently bounded to the profile fields it may touch.
	if input.Role != nil {
		if policy.Decide(acting, &domain.User{ID: targetID}, policy.ActionUpdateRole) != policy.Allow {
			return nil, domain.ErrForbidden
		}
		if !input.Role.Valid() {
			return nil, domain.ErrForbidden
		}
		update.Role = input.Role
		s.logger.Info().
			Str("acting_id", acting.ID).
			Str("target_id", targetID).
			Str("role", string(*input.Role)).
			Msg("role change")
	}

	return s.users.Update(ctx, targetID, update)
}

// Impersonate issues a real token for the target identity so an operator
// can act as that user. The grant is logged with both identities.
func (s *UserService) Impersonate(ctx context.Context, acting *domain.User, targetID string) (*domain.Token, *domain.User, error) {
	if policy.Decide(acting, &domain.User{ID: targetID}, policy.ActionImpersonate) != policy.Allow {
		return nil, nil, domain.ErrForbidden
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.issuer.Issue(ctx, target)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().
		Str("acting_id", acting.ID).
		Str("target_id", target.ID).
		Msg("impersonation token issued")
	return token, target, nil
}

// SetProfilePicture stores a picture reference on the acting identity. The
// filename is reduced to its base name; path separators and traversal
// segments never reach storage.
func (s *UserService) SetProfilePicture(ctx context.Context, acting *domain.User, filename, pictureURL string) (*domain.User, error) {
	ref := pictureURL
	if ref == "" {
		name := sanitizeFilename(filename)
		if name == "" {
			name = "profile.jpg"
		}
		ref = "/media/profiles/" + name
	}

	return s.users.Update(ctx, acting.ID, ports.UserUpdate{ProfilePic: &ref})
}

// DeleteAccount removes the acting identity. Tokens are revoked before the
// row is deleted so no window exists where a live token points at a ghost.
func (s *UserService) DeleteAccount(ctx context.Context, acting *domain.User) error {
	if policy.Decide(acting, acting, policy.ActionDeleteOwn) != policy.Allow {
		return domain.ErrForbidden
	}

	if err := s.issuer.RevokeAll(ctx, acting.ID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, acting.ID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", acting.ID).Msg("account deleted")
	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	return base
}
