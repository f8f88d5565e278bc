package common

import (
	"crypto/rand"
)

// base64Alphabet is the standard base64 character set. It has exactly 64
// symbols, so the low six bits of a random byte select one uniformly.
const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// RefreshTokenLength is the number of characters in an opaque refresh token.
const RefreshTokenLength = 64

// MakeRandBase64String returns a string of the given length whose characters
// are drawn uniformly from the base64 alphabet using crypto/rand.
//
// Unlike base64 encoding of random bytes, the result has exactly length
// characters and never contains padding.
//
// It returns an error if the random number generator fails.
func MakeRandBase64String(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = base64Alphabet[b[i]&0x3f]
	}
	return string(b), nil
}

// MakeRefreshToken generates a new opaque refresh token.
func MakeRefreshToken() (string, error) {
	return MakeRandBase64String(RefreshTokenLength)
}
