package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity carried inside an access token.
type Claims struct {
	UserID string
	Email  string
}

// ErrInvalidToken is returned for any token that fails verification: bad
// signature, expired, malformed, or missing identity. Callers surface all of
// these uniformly as an unauthorized condition.
var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Tokens signs and verifies HS256 access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens constructs a token signer/verifier. An empty secret falls back to
// a dev-only default; production deployments must set JWT_SECRET.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if strings.TrimSpace(secret) == "" {
		secret = "dev-secret"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Sign issues a token with the user's email as subject and the user id claim.
func (t *Tokens) Sign(claims Claims) (string, error) {
	if strings.TrimSpace(claims.Email) == "" || strings.TrimSpace(claims.UserID) == "" {
		return "", errors.New("email and user id are required")
	}
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID: claims.UserID,
	})
	return token.SignedString(t.secret)
}

// Verify parses a token and returns its claims. It fails closed: any parse,
// signature, or expiry failure yields ErrInvalidToken.
func (t *Tokens) Verify(raw string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.Subject == "" || claims.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: claims.UserID, Email: claims.Subject}, nil
}
