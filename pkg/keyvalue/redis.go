package keyvalue

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis backs a Store with a Redis database. Keys are namespaced with an
// optional prefix so multiple stores can share one database.
type Redis struct {
	db     redis.UniversalClient
	prefix string
}

// NewRedis creates a Redis-backed store. Pass an empty prefix to store keys
// verbatim.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if client == nil {
		panic("keyvalue: redis store requires a client")
	}
	return &Redis{db: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	val, err := r.db.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

// Set stores value without expiration; session lifetime is enforced by the
// session layer, not the backend.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	return r.db.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return r.db.Del(ctx, r.prefix+key).Err()
}
