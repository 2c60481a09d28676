package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("request with this idempotency key is in progress")

// Locker guards a key for the duration of one request.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type RedisLocker struct {
	Client *redis.Client
	Prefix string
}

func NewRedisLocker(addr, password string, db int) *RedisLocker {
	return &RedisLocker{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		Prefix: "idem:",
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := l.Client.SetNX(ctx, l.Prefix+key, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	if err := l.Client.Del(ctx, l.Prefix+key).Err(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.Client.Ping(ctx).Err()
}

func (l *RedisLocker) Close() error {
	return l.Client.Close()
}

type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string, time.Duration) error { return nil }
func (NopLocker) Release(context.Context, string) error                { return nil }

// Key scopes a client supplied key to the user who sent it.
func Key(userID uint, clientKey string) string {
	return fmt.Sprintf("checkout:%d:%s", userID, clientKey)
}
