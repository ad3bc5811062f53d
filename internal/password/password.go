// Package password wraps argon2id hashing behind the two operations the
// rest of the system needs: hash on signup, verify on login.
package password

import (
	"fmt"

	"github.com/allisson/go-pwdhash"
)

type Hasher struct {
	hasher *pwdhash.PasswordHasher
}

// NewHasher uses the interactive policy: user-facing login latency
// matters more than resistance to offline cracking of a stolen dump.
func NewHasher() (*Hasher, error) {
	h, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, fmt.Errorf("create password hasher: %w", err)
	}
	return &Hasher{hasher: h}, nil
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := h.hasher.Hash([]byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return digest, nil
}

// Verify reports whether plaintext matches digest. A mismatch is
// (false, nil); the error is reserved for structurally invalid digests.
func (h *Hasher) Verify(plaintext, digest string) (bool, error) {
	ok, err := h.hasher.Verify([]byte(plaintext), digest)
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	return ok, nil
}
