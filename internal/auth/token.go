// Package auth implements the stateless session token codec. Tokens are
// HS256-signed JWTs carrying identity id and role; there is no server-side
// session store, so a token's role claim is fixed until expiry.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

// ErrInvalidToken is returned by Verify for every failure mode: bad
// signature, expiry, malformed payload, wrong algorithm, unknown role.
// Verification fails closed and never panics.
var ErrInvalidToken = errors.New("invalid or expired token")

const issuer = "atom-connect"

// Claims are the session claims embedded in every issued token.
type Claims struct {
	IdentityID string      `json:"uid"`
	Role       domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a server-held secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec. An empty secret is refused so a misconfigured
// process fails at startup rather than failing open on verification.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token codec: signing secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue produces a signed, time-bounded token for the given identity.
func (c *Codec) Issue(identityID string, role domain.Role) (string, error) {
	if identityID == "" || !role.Valid() {
		return "", errors.New("token codec: identity id and valid role required")
	}

	now := time.Now().UTC()
	claims := Claims{
		IdentityID: identityID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identityID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a token. Any failure yields ErrInvalidToken;
// callers never see partial claims.
func (c *Codec) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		// Pin the algorithm: a token signed with "none" or an asymmetric
		// method must not be verified against the HMAC secret.
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.IdentityID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
