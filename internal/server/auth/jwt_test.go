package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestSignAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner([]byte("super-secret"), time.Hour)

	tok, err := s.Sign(Identity{UserID: 42, Username: "alice"})
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	got, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got.UserID != 42 || got.Username != "alice" {
		t.Fatalf("identity mismatch: got %+v", got)
	}
}

func TestVerify_ValidWithinWindow_ExpiredAfter(t *testing.T) {
	t.Parallel()

	clock := newClock()
	s := NewJWTSigner([]byte("secret"), time.Hour, WithClock(clock.Now))

	tok, err := s.Sign(Identity{UserID: 1, Username: "u1"})
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	clock.Advance(59 * time.Minute)
	if _, err := s.Verify(tok); err != nil {
		t.Fatalf("token must be valid inside the 1h window: %v", err)
	}

	clock.Advance(time.Minute)
	_, err = s.Verify(tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken at expiry, got %v", err)
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected jwt.ErrTokenExpired in chain, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewJWTSigner([]byte("right-secret"), time.Hour).Sign(Identity{UserID: 2, Username: "u2"})
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	_, err = NewJWTSigner([]byte("wrong-secret"), time.Hour).Verify(tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for invalid signature, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner([]byte("k"), time.Hour)
	for _, raw := range []string{"", "not.a.jwt", "abc", strings.Repeat("x", 200)} {
		if _, err := s.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}

func TestVerify_RejectsUnsignedToken(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           1,
		Username:         "mallory",
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("build none token: %v", err)
	}

	if _, err := NewJWTSigner([]byte("k"), time.Hour).Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestVerify_RejectsOtherHMACAlgorithm(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	other := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           1,
	})
	raw, err := other.SignedString(secret)
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}

	if _, err := NewJWTSigner(secret, time.Hour).Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512, got %v", err)
	}
}

func TestVerify_RequiresExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewJWTSigner(secret, time.Hour).Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without exp, got %v", err)
	}
}

func TestSign_EmbedsClaims(t *testing.T) {
	t.Parallel()

	clock := newClock()
	s := NewJWTSigner([]byte("k"), 0, WithClock(clock.Now))

	raw, err := s.Sign(Identity{UserID: 7, Username: "bob"})
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	claims := &Claims{}
	tok, _, err := jwt.NewParser().ParseUnverified(raw, claims)
	if err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if tok.Method.Alg() != "HS256" {
		t.Fatalf("alg = %s, want HS256", tok.Method.Alg())
	}
	if !claims.IssuedAt.Time.Equal(clock.Now()) {
		t.Fatalf("iat = %v, want %v", claims.IssuedAt.Time, clock.Now())
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != DefaultAccessTokenValidity {
		t.Fatalf("lifetime = %v, want %v", got, DefaultAccessTokenValidity)
	}
	if claims.UserID != 7 || claims.Username != "bob" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
