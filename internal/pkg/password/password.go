// Package password wraps the bcrypt primitive used for credential storage.
// bcrypt embeds a per-record random salt in the digest and its comparison
// is constant-time with respect to the password bytes.
package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost is used when the configured cost is out of bcrypt's range.
const DefaultCost = bcrypt.DefaultCost

// dummyDigest is a valid bcrypt digest of an unguessable throwaway value.
// Login compares against it when the email does not resolve to an identity,
// so the miss path burns the same hashing work as the hit path.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Hasher hashes and verifies passwords at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost, clamped to the
// algorithm's supported range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted one-way digest of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// VerifyDummy performs a comparison against a fixed placeholder digest and
// always fails. It exists so authentication takes comparable time whether
// or not the looked-up email exists.
func (h *Hasher) VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyDigest), []byte(plaintext))
}
