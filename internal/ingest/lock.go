package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/tayar/config"
	"github.com/d60-Lab/tayar/pkg/logger"
)

// RunLock 保证同一时间只有一次抓取在执行
type RunLock interface {
	// Acquire 阻塞直到拿到锁或 ctx 结束
	Acquire(ctx context.Context) (release func(), err error)
}

// LocalRunLock 进程内互斥
type LocalRunLock struct{ sem chan struct{} }

func NewLocalRunLock() *LocalRunLock { return &LocalRunLock{sem: make(chan struct{}, 1)} }

func (l *LocalRunLock) Acquire(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

const defaultRunLockKey = "tayar:ingest:run"

// 只删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRunLock 多实例部署时用 redis 做互斥；TTL 兜底持有者崩溃的情况
type RedisRunLock struct {
	rdb  redis.UniversalClient
	key  string
	ttl  time.Duration
	poll time.Duration
}

func NewRedisRunLock(rdb redis.UniversalClient, ttl time.Duration) *RedisRunLock {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisRunLock{rdb: rdb, key: defaultRunLockKey, ttl: ttl, poll: 200 * time.Millisecond}
}

func (l *RedisRunLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	for {
		ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
		if ok {
			return func() { l.release(token) }, nil
		}
		t := time.NewTimer(l.poll)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (l *RedisRunLock) release(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		logger.Warn("release ingest lock failed", zap.String("key", l.key), zap.Error(err))
	}
}

// NewRunLockFromConfig redis 启用时返回 RedisRunLock，否则进程内锁；closeFn 释放 redis 连接
func NewRunLockFromConfig(ctx context.Context, cfg *config.Config) (lock RunLock, closeFn func() error, err error) {
	if !cfg.Redis.Enabled {
		return NewLocalRunLock(), func() error { return nil }, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
	}
	return NewRedisRunLock(rdb, cfg.Ingest.LockTTL), rdb.Close, nil
}
