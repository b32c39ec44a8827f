package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"obras-backend/models"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Locker serializes work on one key across API instances.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// NoopLocker relies on database row locks alone.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// RedisLocker holds a redislock lease for the duration of the locked section.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 40),
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, &Error{Kind: KindConflict, Message: fmt.Sprintf("%s is busy, retry the request", key)}
	}
	if err != nil {
		return nil, persistenceError("obtain lock "+key, err)
	}
	return func() {
		// Background context: the lease must be released even if the request was cancelled.
		_ = lock.Release(context.Background())
	}, nil
}

func payableLockKey(payableType models.PayableType, id uint) string {
	return fmt.Sprintf("payable:%s:%d", payableType, id)
}
