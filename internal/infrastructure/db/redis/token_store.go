package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/barracks/account-service/internal/core/domain"
)

// auditGrace keeps token records around past their logical expiry, so a
// validation against an expired token can be logged as "expired" rather
// than "never issued". After the grace window Redis drops the key and the
// distinction is gone, which is the lazy garbage collection the token
// contract allows.
const auditGrace = 24 * time.Hour

const (
	tokenKeyPrefix = "token:"
	userKeyPrefix  = "usertokens:"
)

// TokenStore keeps one Redis hash per issued token plus a per-user set of
// token values for revoke-all. Every mutation is a single keyed write, so
// revocation is atomic per token.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) Save(ctx context.Context, token *domain.Token) error {
	dropAt := token.ExpiresAt.Add(auditGrace)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, tokenKey(token.Value),
		"user", token.UserID,
		"issued", token.IssuedAt.Unix(),
		"exp", token.ExpiresAt.Unix(),
		"revoked", 0,
	)
	pipe.ExpireAt(ctx, tokenKey(token.Value), dropAt)
	pipe.SAdd(ctx, userKey(token.UserID), token.Value)
	pipe.ExpireAt(ctx, userKey(token.UserID), dropAt)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *TokenStore) Find(ctx context.Context, value string) (*domain.Token, error) {
	fields, err := s.client.HGetAll(ctx, tokenKey(value)).Result()
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrTokenNotFound
	}

	issued, _ := strconv.ParseInt(fields["issued"], 10, 64)
	exp, _ := strconv.ParseInt(fields["exp"], 10, 64)

	return &domain.Token{
		Value:     value,
		UserID:    fields["user"],
		IssuedAt:  time.Unix(issued, 0).UTC(),
		ExpiresAt: time.Unix(exp, 0).UTC(),
		Revoked:   fields["revoked"] == "1",
	}, nil
}

func (s *TokenStore) Revoke(ctx context.Context, value string) error {
	n, err := s.client.Exists(ctx, tokenKey(value)).Result()
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if n == 0 {
		// Unknown token: nothing to do, revoke is idempotent.
		return nil
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, tokenKey(value), "revoked", 1)
	// Re-arm the TTL in case the key expired between the check and the
	// write; a stub left behind by that race must not live forever.
	pipe.Expire(ctx, tokenKey(value), auditGrace)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *TokenStore) RevokeAll(ctx context.Context, userID string) (int, error) {
	values, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list user tokens: %w", err)
	}

	revoked := 0
	for _, value := range values {
		n, err := s.client.Exists(ctx, tokenKey(value)).Result()
		if err != nil {
			return revoked, fmt.Errorf("revoke user tokens: %w", err)
		}
		if n == 0 {
			continue
		}
		if err := s.client.HSet(ctx, tokenKey(value), "revoked", 1).Err(); err != nil {
			return revoked, fmt.Errorf("revoke user tokens: %w", err)
		}
		revoked++
	}

	if err := s.client.Del(ctx, userKey(userID)).Err(); err != nil {
		return revoked, fmt.Errorf("clear user token set: %w", err)
	}
	return revoked, nil
}

func tokenKey(value string) string {
	return tokenKeyPrefix + value
}

func userKey(userID string) string {
	return userKeyPrefix + userID
}
