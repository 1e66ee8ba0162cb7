package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/certprep/dva-practice-backend/internal/blueprint"
	"github.com/certprep/dva-practice-backend/internal/cache"
)

// GenerationQueue enqueues set numbers for the background worker.
type GenerationQueue interface {
	Enqueue(ctx context.Context, setNumbers []int) error
}

// GenerationStatusReporter exposes the batch generation job status.
type GenerationStatusReporter interface {
	Reset(ctx context.Context, total int) error
	Get(ctx context.Context) (cache.GenerationStatus, error)
}

// TriggerResult describes the outcome of a batch generation request.
type TriggerResult struct {
	Triggered     bool   `json:"triggered"`
	AlreadyStored bool   `json:"already_stored"`
	InProgress    bool   `json:"in_progress"`
	ExistingSets  int64  `json:"existing_sets"`
	QueuedSets    int    `json:"queued_sets"`
	Message       string `json:"message"`
}

// GenerationStatusView is the generation status payload, combining the
// job counters with what actually landed in the store.
type GenerationStatusView struct {
	State      string `json:"state"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Failed     int    `json:"failed"`
	StoredSets int64  `json:"stored_sets"`
}

// GenerationService triggers and reports on the batch generation of the
// full practice set catalog. Generation itself runs in the background
// worker; this service only manages the queue and the status record.
type GenerationService struct {
	sets   PracticeSetStore
	queue  GenerationQueue
	status GenerationStatusReporter
	log    zerolog.Logger
}

// NewGenerationService creates a GenerationService.
func NewGenerationService(sets PracticeSetStore, queue GenerationQueue, status GenerationStatusReporter, log zerolog.Logger) *GenerationService {
	return &GenerationService{
		sets:   sets,
		queue:  queue,
		status: status,
		log:    log.With().Str("component", "generation_service").Logger(),
	}
}

// TriggerBatch enqueues generation of the full catalog. It is a no-op
// when the catalog is already complete or a run is in flight, so repeated
// triggers never duplicate work.
func (s *GenerationService) TriggerBatch(ctx context.Context) (*TriggerResult, error) {
	count, err := s.sets.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count practice sets: %w", err)
	}
	if count >= blueprint.TotalSets {
		return &TriggerResult{
			AlreadyStored: true,
			ExistingSets:  count,
			Message:       fmt.Sprintf("All %d practice sets already exist", blueprint.TotalSets),
		}, nil
	}

	status, err := s.status.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read generation status: %w", err)
	}
	if status.State == cache.GenerationStateRunning {
		return &TriggerResult{
			InProgress:   true,
			ExistingSets: count,
			Message:      "Generation already in progress",
		}, nil
	}

	setNumbers := make([]int, 0, blueprint.TotalSets)
	for n := 1; n <= blueprint.TotalSets; n++ {
		setNumbers = append(setNumbers, n)
	}

	if err := s.status.Reset(ctx, len(setNumbers)); err != nil {
		return nil, fmt.Errorf("reset generation status: %w", err)
	}
	if err := s.queue.Enqueue(ctx, setNumbers); err != nil {
		return nil, fmt.Errorf("enqueue set numbers: %w", err)
	}

	s.log.Info().
		Int("queued_sets", len(setNumbers)).
		Int64("existing_sets", count).
		Msg("batch generation triggered")
	return &TriggerResult{
		Triggered:    true,
		ExistingSets: count,
		QueuedSets:   len(setNumbers),
		Message:      fmt.Sprintf("Generation of %d sets queued", len(setNumbers)),
	}, nil
}

// Status reports the generation job counters alongside the stored set
// count.
func (s *GenerationService) Status(ctx context.Context) (*GenerationStatusView, error) {
	status, err := s.status.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read generation status: %w", err)
	}
	count, err := s.sets.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count practice sets: %w", err)
	}
	return &GenerationStatusView{
		State:      status.State,
		Total:      status.Total,
		Completed:  status.Completed,
		Failed:     status.Failed,
		StoredSets: count,
	}, nil
}
