package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/logger"
)

// releaseScript deletes KEYS[1] only while it still holds ARGV[1]
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares locks between server replicas through Redis
type RedisLocker struct {
	client *redis.Client
	prefix string
}

// NewRedisLocker creates a locker from redis configuration
func NewRedisLocker(cfg *config.RedisConfig) *RedisLocker {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisLocker{client: client, prefix: cfg.KeyPrefix}
}

// Ping checks that Redis is reachable
func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

// Acquire implements Locker with SET NX PX
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock error: %w", err)
	}
	if !ok {
		return nil, ErrHeld
	}

	return func() {
		// release must succeed even when the caller's context is gone
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err(); err != nil {
			logger.Warn("Failed to release redis lock", zap.String("key", fullKey), zap.Error(err))
		}
	}, nil
}
