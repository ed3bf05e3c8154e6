package keystore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("PutRedeem", func(t *testing.T) {
		s := NewMemoryStore(0)
		key := NewKey()

		require.NoError(t, s.Put(ctx, key, "user-1", time.Minute))

		subject, err := s.Redeem(ctx, key)
		require.NoError(t, err)
		require.Equal(t, "user-1", subject)
	})

	t.Run("SingleUse", func(t *testing.T) {
		s := NewMemoryStore(0)
		key := NewKey()

		require.NoError(t, s.Put(ctx, key, "user-1", time.Minute))

		_, err := s.Redeem(ctx, key)
		require.NoError(t, err)

		_, err = s.Redeem(ctx, key)
		require.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		s := NewMemoryStore(0)
		_, err := s.Redeem(ctx, NewKey())
		require.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("ExpiredKey", func(t *testing.T) {
		s := NewMemoryStore(0)
		key := NewKey()

		require.NoError(t, s.Put(ctx, key, "user-1", time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		_, err := s.Redeem(ctx, key)
		require.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("DuplicateLiveKeyRejected", func(t *testing.T) {
		s := NewMemoryStore(0)
		key := NewKey()

		require.NoError(t, s.Put(ctx, key, "user-1", time.Minute))
		require.Error(t, s.Put(ctx, key, "user-2", time.Minute))
	})

	t.Run("ExpiredKeyCanBeReused", func(t *testing.T) {
		s := NewMemoryStore(0)
		key := NewKey()

		require.NoError(t, s.Put(ctx, key, "user-1", time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		require.NoError(t, s.Put(ctx, key, "user-2", time.Minute))
		subject, err := s.Redeem(ctx, key)
		require.NoError(t, err)
		require.Equal(t, "user-2", subject)
	})

	t.Run("SweeperReclaimsExpired", func(t *testing.T) {
		s := NewMemoryStore(10 * time.Millisecond)
		s.Start()
		defer s.Close()

		key := NewKey()
		require.NoError(t, s.Put(ctx, key, "user-1", time.Nanosecond))

		require.Eventually(t, func() bool {
			s.mu.Lock()
			defer s.mu.Unlock()
			_, ok := s.entries[key]
			return !ok
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("CloseIdempotentWithoutStart", func(t *testing.T) {
		s := NewMemoryStore(0)
		require.NoError(t, s.Close())
	})
}

func TestNewKey(t *testing.T) {
	a := NewKey()
	b := NewKey()
	require.NotEqual(t, a, b)
	require.Len(t, a, 36)
}
