package domain

import (
	"errors"
	"time"
)

// ErrInvalidToken is the only token failure callers outside the token
// service ever see. Expired, revoked and unknown tokens all collapse into
// it so a response cannot reveal whether a token was ever issued.
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrTokenNotFound is the store-level miss, kept distinct from
// ErrInvalidToken for audit logging only.
var ErrTokenNotFound = errors.New("token not found")

// Token is an opaque bearer credential bound to one identity.
type Token struct {
	Value     string    `json:"token"`
	UserID    string    `json:"-"`
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
	Revoked   bool      `json:"-"`
}

// Live reports whether the token is usable at instant now. Expiry and
// revocation are always checked together.
func (t *Token) Live(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
