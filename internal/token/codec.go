// Package token signs and verifies the compact, expiring credentials
// used across the auth flows. Every token carries an explicit kind claim
// so a refresh token can never pass where an access token is expected.
package token

import (
	"fmt"
	"time"

	"github.com/caxgpt/todo-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind tags what a token was issued for.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
	KindCode    Kind = "code"   // temporary exchange code for the GPT OAuth handoff
	KindVerify  Kind = "verify" // email verification link
)

// defaultTTL applies when a caller passes a non-positive ttl. Callers are
// expected to always pass an explicit one; one minute keeps an
// accidentally unconfigured token from living long.
const defaultTTL = time.Minute

type Claims struct {
	UserID    uuid.UUID
	Username  string
	Kind      Kind
	ExpiresAt time.Time
}

// Codec is immutable after construction and safe for concurrent use.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewCodec fails on a missing secret or an unknown/non-HMAC algorithm
// so the process refuses to start rather than issue unverifiable tokens.
func NewCodec(secret, algorithm string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token codec: secret key is not configured")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("token codec: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token codec: algorithm %q is not an HMAC method", algorithm)
	}
	return &Codec{secret: []byte(secret), method: method}, nil
}

func (c *Codec) Encode(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := time.Now()

	// jti makes every issued token unique even when two share a subject,
	// kind and issue second — rotation must always produce a new value.
	mc := jwt.MapClaims{
		"sub":  claims.UserID.String(),
		"kind": string(claims.Kind),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	if claims.Username != "" {
		mc["username"] = claims.Username
	}

	signed, err := jwt.NewWithClaims(c.method, mc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and requires the token to be of
// the wanted kind with a UUID subject. There is no partial success: any
// failure is domain.ErrTokenInvalid.
func (c *Codec) Decode(raw string, want Kind) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, domain.ErrTokenInvalid
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	kind, _ := mc["kind"].(string)
	if Kind(kind) != want {
		return nil, domain.ErrTokenInvalid
	}

	sub, _ := mc["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, domain.ErrTokenInvalid
	}

	username, _ := mc["username"].(string)

	return &Claims{
		UserID:    userID,
		Username:  username,
		Kind:      want,
		ExpiresAt: exp.Time,
	}, nil
}
