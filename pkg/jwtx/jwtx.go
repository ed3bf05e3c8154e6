// Package jwtx implements the session token service: HMAC-signed (HS256)
// JWTs carrying the caller's identity claims. There is a single shared
// signing secret and no key rotation; the token is the whole session state.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for session flows.
const (
	// DefaultSessionTTL is the lifetime used when the caller does not
	// override it at issuance.
	DefaultSessionTTL = 24 * time.Hour

	// LoginSessionTTL is the long-lived variant issued at login and
	// mirrored by the cookie max-age.
	LoginSessionTTL = 7 * 24 * time.Hour
)

// ErrInvalidToken is the only failure Verify reports. Malformed input, a bad
// signature and an expired token are deliberately indistinguishable so the
// boundary cannot leak which one happened.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// Claims are the session token claims. One schema is used for every token
// the service issues and verifies.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the user record id ("id" on the wire).
	UserID string `json:"id,omitempty"`

	// Username is the login name of the account.
	Username string `json:"username,omitempty"`

	// AccountID is the owning account record id.
	AccountID string `json:"accountId,omitempty"`

	// Role is the role name assigned to the user at issuance. It is not
	// re-checked against the database on later requests.
	Role string `json:"role,omitempty"`
}

// Identity is the payload callers supply at issuance.
type Identity struct {
	UserID    string
	Username  string
	AccountID string
	Role      string
}

// TokenService signs and verifies session tokens with a shared secret.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	Secret     []byte
	Issuer     string
	DefaultTTL time.Duration
}

// Issue serialises the identity into a signed token expiring after ttl.
// A non-positive ttl falls back to the service default (or
// DefaultSessionTTL when that is unset too).
func (s *TokenService) Issue(id Identity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.DefaultTTL
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		UserID:    id.UserID,
		Username:  id.Username,
		AccountID: id.AccountID,
		Role:      id.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify validates the signature and expiry of a token and returns its
// claims. Every failure collapses to ErrInvalidToken.
func (s *TokenService) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if s.Issuer != "" && claims.Issuer != s.Issuer {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

// Identity unpacks the custom claim fields back into the issuance shape.
func (c Claims) Identity() Identity {
	return Identity{
		UserID:    c.UserID,
		Username:  c.Username,
		AccountID: c.AccountID,
		Role:      c.Role,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
