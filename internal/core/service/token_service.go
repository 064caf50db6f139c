package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/barracks/account-service/internal/core/domain"
	"github.com/barracks/account-service/internal/core/ports"
)

const tokenBytes = 32

// TokenService issues opaque bearer tokens with a fixed TTL and validates
// them against the token store. It never signs anything; a token is only a
// random handle to server-side state, which is what makes revocation work.
type TokenService struct {
	tokens ports.TokenRepository
	users  ports.UserRepository
	ttl    time.Duration
	logger zerolog.Logger
}

func NewTokenService(tokens ports.TokenRepository, users ports.UserRepository, ttl time.Duration, logger zerolog.Logger) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{tokens: tokens, users: users, ttl: ttl, logger: logger}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

func (s *TokenService) Issue(ctx context.Context, user *domain.User) (*domain.Token, error) {
	value, err := generateTokenValue()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	now := time.Now().UTC()
	token := &domain.Token{
		Value:     value,
		UserID:    user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.tokens.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	return token, nil
}

// Validate resolves a bearer value to its owning identity. The precise
// failure (never issued, expired, revoked) is logged for audit but callers
// only ever see domain.ErrInvalidToken.
func (s *TokenService) Validate(ctx context.Context, value string) (*domain.User, error) {
	token, err := s.tokens.Find(ctx, value)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			s.logger.Debug().Msg("token rejected: not found")
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	now := time.Now().UTC()
	if !token.Live(now) {
		reason := "expired"
		if token.Revoked {
			reason = "revoked"
		}
		s.logger.Debug().Str("user_id", token.UserID).Str("reason", reason).Msg("token rejected")
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Identity deleted after issuance; the token is dead.
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve token owner: %w", err)
	}
	return user, nil
}

func (s *TokenService) Revoke(ctx context.Context, value string) error {
	if err := s.tokens.Revoke(ctx, value); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	n, err := s.tokens.RevokeAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}
	if n > 0 {
		s.logger.Info().Str("user_id", userID).Int("revoked", n).Msg("revoked all sessions")
	}
	return nil
}

// generateTokenValue returns a URL-safe random identifier with 256 bits of
// entropy.
func generateTokenValue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
