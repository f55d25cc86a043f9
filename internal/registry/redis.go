// internal/registry/redis.go
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// namePrefix namespaces claim keys so several deployments can share one
// Redis database.
const namePrefix = "uno:names:"

// RedisRegistry backs name claims with Redis SETNX keys so multiple server
// instances share one name space.
type RedisRegistry struct {
	rdb *redis.Client
}

// NewRedisRegistry connects to Redis at addr and verifies the connection.
func NewRedisRegistry(addr string, db int) (*RedisRegistry, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &RedisRegistry{rdb: rdb}, nil
}

func (r *RedisRegistry) Claim(ctx context.Context, name string) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, namePrefix+name, "1", 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim name %q: %w", name, err)
	}
	return ok, nil
}

func (r *RedisRegistry) Release(ctx context.Context, name string) error {
	if err := r.rdb.Del(ctx, namePrefix+name).Err(); err != nil {
		return fmt.Errorf("failed to release name %q: %w", name, err)
	}
	return nil
}
