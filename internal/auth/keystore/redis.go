package keystore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps ephemeral keys in Redis, leaning on server-side TTLs for
// expiry. Redemption uses GETDEL so consuming a key is a single atomic
// round trip.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client. The caller owns the client's
// lifecycle unless it hands it over here and lets Close release it.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "authkey"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":" + k
}

func (s *RedisStore) Put(ctx context.Context, key, subject string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultKeyTTL
	}

	ok, err := s.client.SetNX(ctx, s.key(key), subject, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("keystore: key already exists")
	}
	return nil
}

func (s *RedisStore) Redeem(ctx context.Context, key string) (string, error) {
	subject, err := s.client.GetDel(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return subject, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping verifies the Redis connection, for readiness checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
