// Package blob is the object storage boundary for user avatars.
package blob

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("blob: object not found")

// ObjectStore stores immutable objects by key. Keys are opaque to the
// store; the avatar layer decides their shape.
type ObjectStore interface {
	// Put writes an object, replacing any previous content under the key.
	Put(ctx context.Context, key string, contentType string, body io.Reader) error

	// Get opens an object for reading. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
