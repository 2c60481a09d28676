package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "checkout:7:abc", Key(7, "abc"))
}

func TestNopLocker(t *testing.T) {
	var l Locker = NopLocker{}
	require.NoError(t, l.Acquire(context.Background(), "k", time.Second))
	require.NoError(t, l.Acquire(context.Background(), "k", time.Second))
	require.NoError(t, l.Release(context.Background(), "k"))
}

func TestRedisLocker_Unreachable(t *testing.T) {
	l := &RedisLocker{
		Client: redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		}),
		Prefix: "idem:",
	}
	t.Cleanup(func() { _ = l.Close() })

	err := l.Acquire(context.Background(), "k", time.Second)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocked)
	assert.Contains(t, err.Error(), "acquire lock")
}
