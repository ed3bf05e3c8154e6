// Package keystore holds the ephemeral one-time keys backing the email
// verification and password reset flows. A key maps to a subject (a user or
// account id), lives for a bounded TTL and is consumed on first redemption.
package keystore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultKeyTTL is the lifetime of verification and reset keys.
const DefaultKeyTTL = 3 * 24 * time.Hour

// ErrKeyNotFound covers every redemption failure: a key that never existed,
// one that expired and one that was already redeemed all look the same to
// the caller.
var ErrKeyNotFound = errors.New("keystore: key not found")

// KeyStore is the ephemeral key boundary. Implementations must be safe for
// concurrent use.
type KeyStore interface {
	// Put stores key -> subject with the given TTL. A non-positive ttl
	// falls back to DefaultKeyTTL. Overwriting a live key is an error;
	// issuers always mint fresh keys.
	Put(ctx context.Context, key, subject string, ttl time.Duration) error

	// Redeem returns the subject for a live key and consumes it. A second
	// redemption of the same key fails with ErrKeyNotFound.
	Redeem(ctx context.Context, key string) (string, error)

	// Close releases the underlying resources.
	Close() error
}

// Pinger is implemented by drivers backed by an external service. Readiness
// checks assert for it; the in-memory driver has nothing to ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewKey mints a fresh opaque key. 128 bits of randomness in the standard
// UUID text form, which survives being embedded in a URL query untouched.
func NewKey() string {
	return uuid.NewString()
}
