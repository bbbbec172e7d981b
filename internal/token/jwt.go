package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/accountd/accountd/internal/model"
)

// Claims represents JWT claims with the account id and role.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
}

// KeyResolver returns the verification key for a parsed token. It exists
// so a deployment rotating secrets can verify against a superseding key
// during the transition window without touching this package.
type KeyResolver func(t *jwt.Token) (any, error)

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	resolver  KeyResolver
}

var _ model.TokenManager = (*JWT)(nil)

// Option configures a JWT manager.
type Option func(*JWT)

// WithKeyResolver overrides the verification key lookup.
func WithKeyResolver(resolver KeyResolver) Option {
	return func(j *JWT) {
		j.resolver = resolver
	}
}

// NewJWT creates a new JWT token manager with the provided secret key and
// token lifetime.
func NewJWT(secretKey string, ttl time.Duration, opts ...Option) *JWT {
	j := &JWT{secretKey: secretKey, ttl: ttl}
	j.resolver = j.staticKey

	for _, opt := range opts {
		opt(j)
	}

	return j
}

func (j *JWT) staticKey(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

// Generate creates a signed access token embedding the identity's account
// id and role.
func (j *JWT) Generate(identity model.Identity) (string, error) {
	if identity.IsAnonymous() {
		return "", errors.New("cannot issue token for anonymous identity")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: identity.UserID,
		Role:   string(identity.Role),
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// Parse validates the token and extracts the caller identity. Every
// failure mode, bad signature, malformed structure or elapsed expiry,
// surfaces as ErrInvalidToken. The expiry boundary is strict: a token is
// valid while now < exp and rejected once now >= exp.
func (j *JWT) Parse(tokenString string) (model.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, jwt.Keyfunc(j.resolver))
	if err != nil {
		return model.Anonymous(), fmt.Errorf("%w: %s", model.ErrInvalidToken, err)
	}
	if !token.Valid {
		return model.Anonymous(), model.ErrInvalidToken
	}

	role := model.Role(claims.Role)
	if claims.UserID == 0 || !role.Valid() {
		return model.Anonymous(), fmt.Errorf("%w: malformed claims", model.ErrInvalidToken)
	}

	return model.NewIdentity(claims.UserID, role), nil
}
