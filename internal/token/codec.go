package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingSecret means no signing secret was configured. Callers
	// should treat it as fatal at startup, not per request.
	ErrMissingSecret = errors.New("signing secret is not configured")

	ErrInvalidToken = errors.New("invalid or expired token")
)

// Codec signs and verifies the session credential: an HS256 JWT carrying the
// user id as subject plus issued-at and expiry claims. Verification is pure,
// so a Codec is safe for concurrent use.
type Codec struct {
	secret []byte
	expiry time.Duration
}

func NewCodec(secret string, expiry time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Codec{secret: []byte(secret), expiry: expiry}, nil
}

// Issue produces a signed credential bound to the given user.
func (c *Codec) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature and expiry and returns the subject user id.
// Malformed, forged and expired tokens all map to ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// Secret exposes the raw signing key for middleware that verifies tokens
// itself.
func (c *Codec) Secret() []byte {
	return c.secret
}

// Expiry is the lifetime of issued credentials.
func (c *Codec) Expiry() time.Duration {
	return c.expiry
}
