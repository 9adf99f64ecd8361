package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/utils"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still carries our token, so an
// expired lock taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

const (
	defaultKeyPrefix = "appraisells:lock:"
	retryInterval    = 25 * time.Millisecond
	releaseTimeout   = 2 * time.Second
)

// RedisLocker is a Locker shared by every instance pointing at the same Redis.
// Locks expire after ttl so a crashed holder cannot block a key forever. They
// are not renewed, so ttl must cover the longest critical section: one
// gateway call plus its commit.
type RedisLocker struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

var _ Locker = (*RedisLocker)(nil)

// NewRedisLocker creates a RedisLocker over an existing client.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, keyPrefix: defaultKeyPrefix}
}

// DialRedis parses url, connects and pings the server.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = 20
	opts.MinIdleConns = 2
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Lock polls SET NX until the key is acquired or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.keyPrefix + key
	token := utils.GenerateID()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("lock %s: %w", key, err)
			}
			return nil, fmt.Errorf("lock %s: %w: %w", key, auctionerrors.ErrStorageUnavailable, err)
		}
		if ok {
			return l.releaser(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %s: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) releaser(redisKey, token string) func() {
	return func() {
		// the caller's ctx may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			utils.Warn("failed to release redis lock", map[string]any{"key": redisKey, "error": err.Error()})
		}
	}
}
