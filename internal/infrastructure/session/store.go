// Package session reads the caller's authentication state from opaque
// HMAC-signed session tokens.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/retailpulse/console/internal/domain"
)

// Store verifies session tokens of the form
//
//	base64url(principal).expiryUnix.base64url(hmac-sha256(payload))
//
// against a shared secret. Anything unreadable or unverifiable fails with
// ErrAuthStateUnavailable so callers fail closed into the anonymous path.
type Store struct {
	secret []byte
}

// NewStore creates a token store with the given signing secret.
func NewStore(secret string) *Store {
	return &Store{secret: []byte(secret)}
}

// Issue mints a signed token for a principal. Used by the login surface and
// by tests.
func (s *Store) Issue(principal string, ttl time.Duration) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(principal)) +
		"." + strconv.FormatInt(time.Now().Add(ttl).Unix(), 10)
	return payload + "." + s.sign(payload)
}

// State resolves a token to an auth state. An empty token is simply
// anonymous; an expired token is readable and also anonymous. A malformed or
// tampered token is ErrAuthStateUnavailable.
func (s *Store) State(ctx context.Context, token string) (domain.AuthState, error) {
	if token == "" {
		return domain.AuthState{}, nil
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domain.AuthState{}, fmt.Errorf("%w: malformed token", domain.ErrAuthStateUnavailable)
	}
	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(s.sign(payload)), []byte(parts[2])) {
		return domain.AuthState{}, fmt.Errorf("%w: bad signature", domain.ErrAuthStateUnavailable)
	}

	expiry, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.AuthState{}, fmt.Errorf("%w: bad expiry", domain.ErrAuthStateUnavailable)
	}
	if time.Now().Unix() >= expiry {
		return domain.AuthState{}, nil
	}

	principal, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return domain.AuthState{}, fmt.Errorf("%w: bad principal", domain.ErrAuthStateUnavailable)
	}
	return domain.AuthState{Authenticated: true, Principal: string(principal)}, nil
}

func (s *Store) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
