// Package cache wraps the Redis keys the session and generation flows
// depend on: session start times, per-session submit locks and the batch
// generation queue with its status hash.
package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/certprep/dva-practice-backend/internal/config"
)

// submitLockTTL bounds how long a submit lock can outlive a crashed
// request before another submission may proceed.
const submitLockTTL = 10 * time.Second

// SessionCache caches session start times and serializes answer
// submissions per session.
type SessionCache struct {
	rdb *redis.Client
}

// NewSessionCache creates a SessionCache.
func NewSessionCache(rdb *redis.Client) *SessionCache {
	return &SessionCache{rdb: rdb}
}

// SetStartTime stores a session's start timestamp.
func (c *SessionCache) SetStartTime(ctx context.Context, sessionID string, startedAt time.Time) error {
	return c.rdb.Set(ctx, config.CacheKey.SessionStartKey(sessionID), startedAt.Unix(), 0).Err()
}

// GetStartTime retrieves a cached start timestamp. The second return is
// false on a cache miss; callers fall back to the database and self-heal
// the cache.
func (c *SessionCache) GetStartTime(ctx context.Context, sessionID string) (time.Time, bool, error) {
	val, err := c.rdb.Get(ctx, config.CacheKey.SessionStartKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// Corrupt entry: treat as a miss so the caller re-writes it.
		return time.Time{}, false, nil
	}
	return time.Unix(unix, 0).UTC(), true, nil
}

// AcquireSubmitLock takes the per-session submission lock. It reports
// false when another submission for the same session holds it.
func (c *SessionCache) AcquireSubmitLock(ctx context.Context, sessionID string) (bool, error) {
	return c.rdb.SetNX(ctx, config.CacheKey.SessionSubmitLockKey(sessionID), 1, submitLockTTL).Result()
}

// ReleaseSubmitLock drops the per-session submission lock.
func (c *SessionCache) ReleaseSubmitLock(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, config.CacheKey.SessionSubmitLockKey(sessionID)).Err()
}
