package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tayar/config"
)

func TestLocalRunLockBlocksUntilReleased(t *testing.T) {
	l := NewLocalRunLock()
	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release2, err := l.Acquire(context.Background())
	require.NoError(t, err)
	release2()
}

func newRedisLock(t *testing.T) (*RedisRunLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	l := NewRedisRunLock(rdb, time.Minute)
	l.poll = 10 * time.Millisecond
	return l, mr
}

func TestRedisRunLock(t *testing.T) {
	l, mr := newRedisLock(t)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists(defaultRunLockKey))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	assert.False(t, mr.Exists(defaultRunLockKey))

	acquired := make(chan struct{})
	release, err = l.Acquire(context.Background())
	require.NoError(t, err)
	go func() {
		r, err := l.Acquire(context.Background())
		if assert.NoError(t, err) {
			r()
		}
		close(acquired)
	}()
	time.Sleep(30 * time.Millisecond)
	release()
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}

func TestRedisRunLockReleaseKeepsForeignToken(t *testing.T) {
	l, mr := newRedisLock(t)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	// 模拟锁过期后被其他实例拿走
	mr.FastForward(2 * time.Minute)
	require.NoError(t, mr.Set(defaultRunLockKey, "someone-else"))

	release()
	v, err := mr.Get(defaultRunLockKey)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
}

func TestNewRunLockFromConfig(t *testing.T) {
	cfg := &config.Config{}
	lock, closeFn, err := NewRunLockFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalRunLock{}, lock)
	require.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	cfg.Redis = config.RedisConfig{Enabled: true, Addr: mr.Addr()}
	cfg.Ingest.LockTTL = time.Minute
	lock, closeFn, err = NewRunLockFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &RedisRunLock{}, lock)
	require.NoError(t, closeFn())
}
