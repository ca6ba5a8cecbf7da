package artifact

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the connection parameters for a Redis backed
// artifact store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces all keys written by the store. Defaults to
	// "myagent:artifacts".
	Prefix string
}

// RedisStore persists artifacts in Redis. Each artifact lives under a
// string key derived from the session and artifact name; a per-session set
// indexes the names so List does not require a key scan.
//
// Key layout:
//
//	<prefix>:<sessionID>:<name>  -> raw bytes
//	<prefix>:<sessionID>         -> set of names
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "myagent:artifacts"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) dataKey(sessionID, name string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, sessionID, name)
}

func (r *RedisStore) indexKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, sessionID)
}

// Save stores (or overwrites) the artifact bytes and records the name in the
// session index.
func (r *RedisStore) Save(ctx context.Context, sessionID, name string, data []byte) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.dataKey(sessionID, name), data, 0)
	pipe.SAdd(ctx, r.indexKey(sessionID), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}

// Get returns the stored artifact bytes or ErrNotFound.
func (r *RedisStore) Get(ctx context.Context, sessionID, name string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.dataKey(sessionID, name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// List returns the artifact names recorded in the session index.
func (r *RedisStore) List(ctx context.Context, sessionID string) ([]string, error) {
	names, err := r.client.SMembers(ctx, r.indexKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	return names, nil
}

// Delete removes the artifact and its index entry, or returns ErrNotFound
// when the artifact does not exist.
func (r *RedisStore) Delete(ctx context.Context, sessionID, name string) error {
	removed, err := r.client.Del(ctx, r.dataKey(sessionID, name)).Result()
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	if err := r.client.SRem(ctx, r.indexKey(sessionID), name).Err(); err != nil {
		return fmt.Errorf("redis delete index: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *RedisStore) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
