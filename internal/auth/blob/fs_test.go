package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFSStore(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *FSStore {
		s, err := NewFSStore(t.TempDir())
		require.NoError(t, err)
		return s
	}

	t.Run("PutGet", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "avatars/alice.svg", "image/svg+xml", strings.NewReader("<svg/>")))

		r, contentType, err := s.Get(ctx, "avatars/alice.svg")
		require.NoError(t, err)
		defer r.Close()

		body, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, "<svg/>", string(body))
		require.Equal(t, "image/svg+xml", contentType)
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "k", "text/plain", strings.NewReader("one")))
		require.NoError(t, s.Put(ctx, "k", "text/plain", strings.NewReader("two")))

		r, _, err := s.Get(ctx, "k")
		require.NoError(t, err)
		defer r.Close()

		body, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, "two", string(body))
	})

	t.Run("Missing", func(t *testing.T) {
		s := newStore(t)
		_, _, err := s.Get(ctx, "nope")
		require.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("DeleteIdempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "k", "text/plain", strings.NewReader("x")))
		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "k"))

		_, _, err := s.Get(ctx, "k")
		require.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("KeyCannotEscapeRoot", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "../../etc/passwd", "text/plain", strings.NewReader("x")))

		r, _, err := s.Get(ctx, "../../etc/passwd")
		require.NoError(t, err)
		require.NoError(t, r.Close())
	})
}
