package common

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// MakeRandHexString returns size random bytes encoded as hex, so the result
// is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MakeRandURLSafeString returns size random bytes encoded with unpadded
// URL-safe base64.
func MakeRandURLSafeString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// IsPublicEndpoint reports whether path targets one of PublicEndpoints.
// Matching is by substring so that query strings and base paths do not matter.
func IsPublicEndpoint(path string) bool {
	for _, p := range PublicEndpoints {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// BearerToken extracts the token from an Authorization header value.
// The second result is false when the header is not a bearer credential.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return tok, tok != ""
}
