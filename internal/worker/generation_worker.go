// Package worker holds the background consumers of the Redis work
// queues.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/certprep/dva-practice-backend/internal/blueprint"
	"github.com/certprep/dva-practice-backend/internal/cache"
	"github.com/certprep/dva-practice-backend/internal/composer"
	"github.com/certprep/dva-practice-backend/internal/repository"
)

var errEmptySet = errors.New("composed set has no questions")

// GenerationWorker consumes the set generation queue, composes one
// practice set per queue item and persists it. Generation is slow (one
// provider call per blueprint task) so it runs strictly off the request
// path.
type GenerationWorker struct {
	bp       *blueprint.Blueprint
	composer *composer.Composer
	sets     *repository.PracticeSetRepository
	queue    *cache.GenerationQueue
	status   *cache.GenerationStatusStore
	log      zerolog.Logger
}

// NewGenerationWorker creates a new GenerationWorker.
func NewGenerationWorker(
	bp *blueprint.Blueprint,
	composer *composer.Composer,
	sets *repository.PracticeSetRepository,
	queue *cache.GenerationQueue,
	status *cache.GenerationStatusStore,
	log zerolog.Logger,
) *GenerationWorker {
	return &GenerationWorker{
		bp:       bp,
		composer: composer,
		sets:     sets,
		queue:    queue,
		status:   status,
		log:      log.With().Str("component", "generation_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *GenerationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *GenerationWorker) processNext(ctx context.Context) {
	setNumber, ok, err := w.queue.Dequeue(ctx, time.Second)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Queue read error")
			time.Sleep(time.Second)
		}
		return
	}
	if !ok {
		return
	}

	if setNumber < 1 || setNumber > blueprint.TotalSets {
		w.log.Warn().Int("set_number", setNumber).Msg("Dropping out-of-range queue item")
		return
	}

	if err := w.generateSet(ctx, setNumber); err != nil {
		w.log.Error().Err(err).Int("set_number", setNumber).Msg("Set generation failed")
		if err := w.status.IncrFailed(ctx); err != nil {
			w.log.Error().Err(err).Msg("Status update error")
		}
	} else {
		if err := w.status.IncrCompleted(ctx); err != nil {
			w.log.Error().Err(err).Msg("Status update error")
		}
	}

	w.finishIfDrained(ctx)
}

func (w *GenerationWorker) generateSet(ctx context.Context, setNumber int) error {
	started := time.Now()

	// Regeneration of an existing set is a no-op; the trigger endpoint
	// can enqueue numbers that landed on a previous partial run.
	if _, err := w.sets.GetBySetNumber(ctx, setNumber); err == nil {
		w.log.Info().Int("set_number", setNumber).Msg("Set already stored, skipping")
		return nil
	}

	set, err := w.composer.Compose(ctx, w.bp, setNumber)
	if err != nil {
		return err
	}
	if len(set.Questions) == 0 {
		return errEmptySet
	}

	if err := w.sets.Insert(ctx, set); err != nil {
		return err
	}

	w.log.Info().
		Int("set_number", setNumber).
		Int("questions", len(set.Questions)).
		Dur("took", time.Since(started)).
		Msg("Practice set generated")
	return nil
}

func (w *GenerationWorker) finishIfDrained(ctx context.Context) {
	length, err := w.queue.Length(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Queue length error")
		return
	}
	if length > 0 {
		return
	}
	if err := w.status.Finish(ctx); err != nil {
		w.log.Error().Err(err).Msg("Status finalize error")
	}
}
