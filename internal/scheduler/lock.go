package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Locker is the cross-instance mutual exclusion used by the scheduled job.
// Acquire returns false when another instance holds the lock; the release
// function must be called when the run completes.
type Locker interface {
	Acquire(ctx context.Context) (release func(), acquired bool, err error)
}

// Redis scripts guarded by the lock token, so a release after the lease
// expired cannot touch a lock acquired by another instance.
var (
	releaseScript = redis.NewScript(
		`if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) end return 0`)
	shortenScript = redis.NewScript(
		`if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("pexpire", KEYS[1], ARGV[2]) end return 0`)
)

// RedisLock is a leased lock with a minimum and maximum hold. The minimum
// hold prevents thrash when several instances race at the same tick; the
// maximum hold self-heals if an instance dies mid-run.
type RedisLock struct {
	client  *redis.Client
	key     string
	minHold time.Duration
	maxHold time.Duration
	log     *zap.Logger
}

func NewRedisLock(client *redis.Client, key string, minHold, maxHold time.Duration, log *zap.Logger) *RedisLock {
	return &RedisLock{
		client:  client,
		key:     key,
		minHold: minHold,
		maxHold: maxHold,
		log:     log,
	}
}

func (l *RedisLock) Acquire(ctx context.Context) (func(), bool, error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, l.key, token, l.maxHold).Result()
	if err != nil {
		return nil, false, err
	}
	if !acquired {
		return nil, false, nil
	}

	start := time.Now()
	release := func() {
		elapsed := time.Since(start)
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if elapsed >= l.minHold {
			if err := releaseScript.Run(releaseCtx, l.client, []string{l.key}, token).Err(); err != nil {
				l.log.Error("release scheduler lock", zap.Error(err))
			}
			return
		}

		// hold the lease for the remainder of the minimum hold
		remaining := l.minHold - elapsed
		if err := shortenScript.Run(releaseCtx, l.client, []string{l.key}, token, remaining.Milliseconds()).Err(); err != nil {
			l.log.Error("shorten scheduler lock lease", zap.Error(err))
		}
	}

	return release, true, nil
}
