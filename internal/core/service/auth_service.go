package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/barracks/account-service/internal/core/domain"
	"github.com/barracks/account-service/internal/core/ports"
	"github.com/barracks/account-service/internal/pkg/password"
)

// AuthService implements registration, login and session lifecycle.
type AuthService struct {
	users  ports.UserRepository
	issuer ports.TokenIssuer
	hasher *password.Hasher
	mail   ports.MailEnqueuer
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, issuer ports.TokenIssuer, hasher *password.Hasher, mail ports.MailEnqueuer, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, issuer: issuer, hasher: hasher, mail: mail, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Token, *domain.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        domain.NormalizeEmail(input.Email),
		PasswordHash: hash,
		Name:         input.Name,
		Phone:        input.Phone,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.issuer.Issue(ctx, created)
	if err != nil {
		return nil, nil, err
	}

	s.enqueueWelcomeMail(created)
	return token, created, nil
}

// Login verifies credentials and returns a fresh token. The miss path runs
// a dummy hash comparison so the response latency does not reveal whether
// the email exists, and every failure collapses into ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, pass string) (*domain.Token, *domain.User, error) {
	if email == "" || pass == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.VerifyDummy(pass)
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(pass, user.PasswordHash) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

// ChangePassword re-verifies the old password before writing the new hash,
// then rotates the session: every previously issued token is revoked and a
// single replacement is returned.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, oldPassword, newPassword string) (*domain.Token, error) {
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return nil, domain.ErrInvalidOldPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.SetPasswordHash(ctx, user.ID, hash); err != nil {
		return nil, err
	}

	if err := s.issuer.RevokeAll(ctx, user.ID); err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.enqueuePasswordChangedMail(user)
	return token, nil
}

// Logout revokes the presented token. Unknown and already-revoked values
// succeed; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, tokenValue string) error {
	return s.issuer.Revoke(ctx, tokenValue)
}

func (s *AuthService) enqueueWelcomeMail(user *domain.User) {
	if s.mail == nil {
		return
	}
	msg, err := WelcomeMail(user)
	if err != nil {
		s.logger.Error().Err(err).Msg("render welcome mail")
		return
	}
	if !s.mail.Enqueue(msg) {
		s.logger.Warn().Str("user_id", user.ID).Msg("mail queue full, welcome mail dropped")
	}
}

func (s *AuthService) enqueuePasswordChangedMail(user *domain.User) {
	if s.mail == nil {
		return
	}
	msg, err := PasswordChangedMail(user)
	if err != nil {
		s.logger.Error().Err(err).Msg("render password-changed mail")
		return
	}
	if !s.mail.Enqueue(msg) {
		s.logger.Warn().Str("user_id", user.ID).Msg("mail queue full, notice dropped")
	}
}
