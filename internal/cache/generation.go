package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/certprep/dva-practice-backend/internal/config"
)

// Generation job states reported by the status hash.
const (
	GenerationStatePending = "pending"
	GenerationStateRunning = "running"
	GenerationStateDone    = "done"
	GenerationStatePartial = "done_with_failures"
)

// GenerationStatus is the observable state of the batch generation job.
type GenerationStatus struct {
	State     string `json:"state"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
}

// GenerationQueue is the work queue feeding the set generation worker.
type GenerationQueue struct {
	rdb *redis.Client
}

// NewGenerationQueue creates a GenerationQueue.
func NewGenerationQueue(rdb *redis.Client) *GenerationQueue {
	return &GenerationQueue{rdb: rdb}
}

// Enqueue pushes set numbers onto the generation queue.
func (q *GenerationQueue) Enqueue(ctx context.Context, setNumbers []int) error {
	items := make([]any, len(setNumbers))
	for i, n := range setNumbers {
		items[i] = n
	}
	return q.rdb.RPush(ctx, config.WorkerKey.GenerateSetsQueue, items...).Err()
}

// Dequeue pops the next set number, blocking up to timeout. The second
// return is false when the queue stayed empty.
func (q *GenerationQueue) Dequeue(ctx context.Context, timeout time.Duration) (int, bool, error) {
	result, err := q.rdb.BLPop(ctx, timeout, config.WorkerKey.GenerateSetsQueue).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	// BLPop returns [key, value].
	n, err := strconv.Atoi(result[1])
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// Length returns the number of pending queue items.
func (q *GenerationQueue) Length(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, config.WorkerKey.GenerateSetsQueue).Result()
}

// GenerationStatusStore tracks batch generation progress in a Redis hash
// so the trigger endpoint can report on a job it does not run itself.
type GenerationStatusStore struct {
	rdb *redis.Client
}

// NewGenerationStatusStore creates a GenerationStatusStore.
func NewGenerationStatusStore(rdb *redis.Client) *GenerationStatusStore {
	return &GenerationStatusStore{rdb: rdb}
}

// Reset marks a fresh run over total sets with zeroed counters.
func (s *GenerationStatusStore) Reset(ctx context.Context, total int) error {
	return s.rdb.HSet(ctx, config.CacheKey.GenerationStatusKey(),
		"state", GenerationStateRunning,
		"total", total,
		"completed", 0,
		"failed", 0,
	).Err()
}

// IncrCompleted bumps the completed counter by one.
func (s *GenerationStatusStore) IncrCompleted(ctx context.Context) error {
	return s.rdb.HIncrBy(ctx, config.CacheKey.GenerationStatusKey(), "completed", 1).Err()
}

// IncrFailed bumps the failed counter by one.
func (s *GenerationStatusStore) IncrFailed(ctx context.Context) error {
	return s.rdb.HIncrBy(ctx, config.CacheKey.GenerationStatusKey(), "failed", 1).Err()
}

// Finish records the terminal state once the queue drains.
func (s *GenerationStatusStore) Finish(ctx context.Context) error {
	status, err := s.Get(ctx)
	if err != nil {
		return err
	}
	state := GenerationStateDone
	if status.Failed > 0 {
		state = GenerationStatePartial
	}
	return s.rdb.HSet(ctx, config.CacheKey.GenerationStatusKey(), "state", state).Err()
}

// Get reads the current status. A missing hash reads as pending.
func (s *GenerationStatusStore) Get(ctx context.Context) (GenerationStatus, error) {
	fields, err := s.rdb.HGetAll(ctx, config.CacheKey.GenerationStatusKey()).Result()
	if err != nil {
		return GenerationStatus{}, err
	}
	if len(fields) == 0 {
		return GenerationStatus{State: GenerationStatePending}, nil
	}

	status := GenerationStatus{State: fields["state"]}
	status.Total, _ = strconv.Atoi(fields["total"])
	status.Completed, _ = strconv.Atoi(fields["completed"])
	status.Failed, _ = strconv.Atoi(fields["failed"])
	return status, nil
}
