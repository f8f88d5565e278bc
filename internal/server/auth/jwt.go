// Package auth holds the credential primitives used by the token service:
// an HS256 access token signer and a bcrypt hasher for passwords and refresh
// tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenValidity is the lifetime of an access token.
const DefaultAccessTokenValidity = time.Hour

// ErrInvalidToken is returned by Verify for any token that must be rejected:
// malformed, unsigned, signed with another key or algorithm, or expired.
var ErrInvalidToken = errors.New("invalid token")

// Identity is what an access token proves about its bearer.
type Identity struct {
	UserID   int64
	Username string
}

// Claims are the registered claims plus the user identity carried in the token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// JWTSigner issues and verifies HS256 access tokens with a server-held secret.
// It is safe for concurrent use.
type JWTSigner struct {
	secretKey []byte
	validity  time.Duration
	now       func() time.Time
}

// SignerOption customises a JWTSigner.
type SignerOption func(*JWTSigner)

// WithClock replaces time.Now, e.g. to simulate clock skew in tests.
func WithClock(now func() time.Time) SignerOption {
	return func(s *JWTSigner) { s.now = now }
}

// NewJWTSigner returns a signer for secretKey. A non-positive validity falls
// back to DefaultAccessTokenValidity.
func NewJWTSigner(secretKey []byte, validity time.Duration, opts ...SignerOption) *JWTSigner {
	if validity <= 0 {
		validity = DefaultAccessTokenValidity
	}
	s := &JWTSigner{secretKey: secretKey, validity: validity, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign returns a signed access token for id expiring validity from now.
func (s *JWTSigner) Sign(id Identity) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		UserID:   id.UserID,
		Username: id.Username,
	})

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry of tokenString and returns
// the identity it carries. Every rejection is reported as ErrInvalidToken
// wrapped around the parser error.
func (s *JWTSigner) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
