package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces credential keys.
const DefaultRedisPrefix = "policyinsight:credentials:"

// RedisBackend stores each credential as a string key with a native TTL.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisBackend(client redis.UniversalClient, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisBackend{client: client, prefix: prefix}
}

// OpenRedis connects to addr and pings it.
func OpenRedis(ctx context.Context, addr, password string) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisBackend(client, ""), nil
}

func (b *RedisBackend) key(name string) string {
	return b.prefix + name
}

func redisTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return ttl
}

func (b *RedisBackend) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.key(name), value, redisTTL(ttl)).Err(); err != nil {
		return fmt.Errorf("failed to set credential[%s]: %w", name, err)
	}
	return nil
}

func (b *RedisBackend) SetMany(ctx context.Context, entries []Entry) error {
	_, err := b.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, e := range entries {
			p.Set(ctx, b.key(e.Name), e.Value, redisTTL(e.TTL))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set credentials: %w", err)
	}
	return nil
}

func (b *RedisBackend) Get(ctx context.Context, name string) (string, bool, error) {
	v, err := b.client.Get(ctx, b.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get credential[%s]: %w", name, err)
	}
	return v, true, nil
}

func (b *RedisBackend) Delete(ctx context.Context, name string) error {
	if err := b.client.Del(ctx, b.key(name)).Err(); err != nil {
		return fmt.Errorf("failed to delete credential[%s]: %w", name, err)
	}
	return nil
}

func (b *RedisBackend) Clear(ctx context.Context) error {
	keys := make([]string, 0, len(AllKinds))
	for _, k := range AllKinds {
		keys = append(keys, b.key(string(k)))
	}
	if err := b.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
