// Package composer assembles practice sets: it splits each domain's
// question budget across its tasks, fans the generation calls out to the
// content provider, partitions scored/unscored questions and shuffles the
// final order.
package composer

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/certprep/dva-practice-backend/internal/blueprint"
	"github.com/certprep/dva-practice-backend/internal/generator"
	"github.com/certprep/dva-practice-backend/internal/model"
)

// Composer builds practice sets from provider output. The randomness
// source is injected so tests can assert exact output with a fixed seed.
type Composer struct {
	provider generator.Provider
	rng      *rand.Rand
	log      zerolog.Logger
}

// New creates a Composer.
func New(provider generator.Provider, rng *rand.Rand, log zerolog.Logger) *Composer {
	return &Composer{
		provider: provider,
		rng:      rng,
		log:      log.With().Str("component", "composer").Logger(),
	}
}

// splitAcrossTasks distributes count questions over nTasks as evenly as
// possible: the first count%nTasks tasks (in task-number order) receive
// one extra question. The counts always sum to count and differ by at
// most one.
func splitAcrossTasks(count, nTasks int) []int {
	if nTasks <= 0 {
		return nil
	}
	base := count / nTasks
	rem := count % nTasks

	counts := make([]int, nTasks)
	for i := range counts {
		counts[i] = base
		if i < rem {
			counts[i]++
		}
	}
	return counts
}

// taskSlot is one (domain, task) generation unit. Results land in
// per-slot storage so concurrent calls never contend on a shared list
// and the pre-shuffle order stays deterministic.
type taskSlot struct {
	req       generator.TaskRequest
	questions []model.Question
}

// Compose builds one practice set for the given set number. A provider
// failure for one (domain, task) is logged and contributes nothing; the
// rest of the set is still assembled. The scored partition caps at
// blueprint.ScoredQuestions but tolerates provider under-delivery.
func (c *Composer) Compose(ctx context.Context, bp *blueprint.Blueprint, setNumber int) (*model.PracticeSet, error) {
	var slots []*taskSlot
	for _, d := range bp.Domains() {
		counts := splitAcrossTasks(d.QuestionsPerSet, len(d.Tasks))
		for i, task := range d.Tasks {
			slots = append(slots, &taskSlot{req: generator.TaskRequest{
				Domain:          d.Name,
				DomainWeight:    d.Weight,
				TaskNumber:      task.Number,
				TaskDescription: task.Description,
				Count:           counts[i],
				SetNumber:       setNumber,
				FocusServices:   d.Services,
				FocusConcepts:   d.Concepts,
			}})
		}
	}

	var wg sync.WaitGroup
	for _, slot := range slots {
		wg.Add(1)
		go func(s *taskSlot) {
			defer wg.Done()
			questions, err := c.provider.GenerateQuestions(ctx, s.req)
			if err != nil {
				c.log.Error().
					Err(err).
					Str("domain", s.req.Domain).
					Int("task", s.req.TaskNumber).
					Int("set_number", setNumber).
					Msg("Question generation failed for task")
				return
			}
			s.questions = questions
		}(slot)
	}
	wg.Wait()

	var all []model.Question
	for _, s := range slots {
		all = append(all, s.questions...)
	}

	c.markScored(all)

	c.rng.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})

	scored := 0
	for _, q := range all {
		if q.IsScored {
			scored++
		}
	}

	return &model.PracticeSet{
		SetID:              uuid.New(),
		SetNumber:          setNumber,
		Topic:              blueprint.ExamName,
		Questions:          all,
		CreatedAt:          time.Now().UTC(),
		TotalQuestions:     len(all),
		ScoredQuestions:    scored,
		UnscoredQuestions:  len(all) - scored,
		DomainDistribution: bp.RequestedDistribution(),
	}, nil
}

// markScored samples min(ScoredQuestions, len) distinct indices without
// replacement and marks only those as scored.
func (c *Composer) markScored(questions []model.Question) {
	target := blueprint.ScoredQuestions
	if len(questions) < target {
		target = len(questions)
	}

	perm := c.rng.Perm(len(questions))
	scored := make(map[int]struct{}, target)
	for _, idx := range perm[:target] {
		scored[idx] = struct{}{}
	}

	for i := range questions {
		_, ok := scored[i]
		questions[i].IsScored = ok
	}
}
