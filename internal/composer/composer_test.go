package composer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/certprep/dva-practice-backend/internal/blueprint"
	"github.com/certprep/dva-practice-backend/internal/generator"
	"github.com/certprep/dva-practice-backend/internal/model"
)

func TestSplitAcrossTasks(t *testing.T) {
	tests := []struct {
		count  int
		nTasks int
		want   []int
	}{
		{21, 3, []int{7, 7, 7}},
		{17, 3, []int{6, 6, 5}},
		{16, 4, []int{4, 4, 4, 4}},
		{11, 3, []int{4, 4, 3}},
		{1, 3, []int{1, 0, 0}},
		{0, 3, []int{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_over_%d", tt.count, tt.nTasks), func(t *testing.T) {
			got := splitAcrossTasks(tt.count, tt.nTasks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			sum := 0
			min, max := got[0], got[0]
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
				sum += v
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
			if sum != tt.count {
				t.Errorf("counts sum to %d, want %d", sum, tt.count)
			}
			if max-min > 1 {
				t.Errorf("max-min = %d, want <= 1", max-min)
			}
		})
	}
}

func TestSplitAcrossTasksAllBlueprintDomains(t *testing.T) {
	bp := blueprint.Default()
	for _, d := range bp.Domains() {
		counts := splitAcrossTasks(d.QuestionsPerSet, len(d.Tasks))
		sum := 0
		for _, v := range counts {
			sum += v
		}
		if sum != d.QuestionsPerSet {
			t.Errorf("domain %q: split sums to %d, want %d", d.Name, sum, d.QuestionsPerSet)
		}
	}
}

// fakeProvider returns exactly the requested number of synthetic
// questions, or fails for configured domains.
type fakeProvider struct {
	mu          sync.Mutex
	failDomains map[string]bool
	deliver     func(req generator.TaskRequest) int
	calls       []generator.TaskRequest
}

func (f *fakeProvider) GenerateQuestions(_ context.Context, req generator.TaskRequest) ([]model.Question, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.failDomains[req.Domain] {
		return nil, errors.New("provider unavailable")
	}

	count := req.Count
	if f.deliver != nil {
		count = f.deliver(req)
	}

	questions := make([]model.Question, 0, count)
	for i := 0; i < count; i++ {
		questions = append(questions, model.Question{
			QuestionID:     fmt.Sprintf("%s-t%d-q%d", req.Domain, req.TaskNumber, i),
			Domain:         req.Domain,
			TaskNumber:     req.TaskNumber,
			QuestionType:   model.QuestionTypeMultipleChoice,
			Question:       "generated",
			Options:        []string{"A", "B", "C", "D"},
			CorrectAnswers: []string{"A"},
			Difficulty:     model.DifficultyMedium,
			IsScored:       true,
		})
	}
	return questions, nil
}

func newComposer(p generator.Provider, seed int64) *Composer {
	return New(p, rand.New(rand.NewSource(seed)), zerolog.Nop())
}

func TestComposeFullDelivery(t *testing.T) {
	bp := blueprint.Default()
	provider := &fakeProvider{}
	c := newComposer(provider, 1)

	set, err := c.Compose(context.Background(), bp, 7)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if set.SetNumber != 7 {
		t.Errorf("set number = %d, want 7", set.SetNumber)
	}
	if set.TotalQuestions != blueprint.TotalQuestions {
		t.Errorf("total questions = %d, want %d", set.TotalQuestions, blueprint.TotalQuestions)
	}
	if set.ScoredQuestions != blueprint.ScoredQuestions {
		t.Errorf("scored questions = %d, want %d", set.ScoredQuestions, blueprint.ScoredQuestions)
	}
	if set.UnscoredQuestions != blueprint.TotalQuestions-blueprint.ScoredQuestions {
		t.Errorf("unscored questions = %d", set.UnscoredQuestions)
	}
	if got := set.ScoredCount(); got != blueprint.ScoredQuestions {
		t.Errorf("scored tally = %d, want %d", got, blueprint.ScoredQuestions)
	}

	// Requested distribution is recorded, and with a full delivery the
	// actual tally matches it.
	actual := set.ActualDomainCounts()
	for name, want := range bp.RequestedDistribution() {
		if set.DomainDistribution[name] != want {
			t.Errorf("distribution[%q] = %d, want %d", name, set.DomainDistribution[name], want)
		}
		if actual[name] != want {
			t.Errorf("actual[%q] = %d, want %d", name, actual[name], want)
		}
	}

	// One provider call per (domain, task) pair.
	wantCalls := 0
	for _, d := range bp.Domains() {
		wantCalls += len(d.Tasks)
	}
	if len(provider.calls) != wantCalls {
		t.Errorf("provider calls = %d, want %d", len(provider.calls), wantCalls)
	}
}

func TestComposeDeterministicWithSeed(t *testing.T) {
	bp := blueprint.Default()

	first, err := newComposer(&fakeProvider{}, 42).Compose(context.Background(), bp, 1)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	second, err := newComposer(&fakeProvider{}, 42).Compose(context.Background(), bp, 1)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	for i := range first.Questions {
		if first.Questions[i].QuestionID != second.Questions[i].QuestionID {
			t.Fatalf("question order diverged at %d with identical seed", i)
		}
		if first.Questions[i].IsScored != second.Questions[i].IsScored {
			t.Fatalf("scored partition diverged at %d with identical seed", i)
		}
	}
}

func TestComposeShufflesOrder(t *testing.T) {
	bp := blueprint.Default()
	set, err := newComposer(&fakeProvider{}, 3).Compose(context.Background(), bp, 1)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	// Domain/task locality must be destroyed: the blueprint emits all
	// development questions first, so an unshuffled set would open with a
	// run of 21 development questions.
	run := 0
	for _, q := range set.Questions {
		if q.Domain != "development" {
			break
		}
		run++
	}
	if run >= 21 {
		t.Error("questions still grouped by domain after shuffle")
	}
}

func TestComposeProviderFailureIsPartial(t *testing.T) {
	bp := blueprint.Default()
	provider := &fakeProvider{failDomains: map[string]bool{"security": true}}

	set, err := newComposer(provider, 1).Compose(context.Background(), bp, 2)
	if err != nil {
		t.Fatalf("Compose should tolerate per-task failures: %v", err)
	}

	want := blueprint.TotalQuestions - 17 // security contributes nothing
	if set.TotalQuestions != want {
		t.Errorf("total = %d, want %d", set.TotalQuestions, want)
	}
	if set.ActualDomainCounts()["security"] != 0 {
		t.Error("failed domain should deliver no questions")
	}
	// Requested distribution still records the target.
	if set.DomainDistribution["security"] != 17 {
		t.Errorf("requested distribution mutated: %v", set.DomainDistribution)
	}
}

func TestComposeUnderDeliveryCapsScored(t *testing.T) {
	bp := blueprint.Default()
	provider := &fakeProvider{deliver: func(req generator.TaskRequest) int {
		if req.Count > 2 {
			return 2
		}
		return req.Count
	}}

	set, err := newComposer(provider, 1).Compose(context.Background(), bp, 1)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if set.TotalQuestions >= blueprint.TotalQuestions {
		t.Fatalf("fixture should under-deliver, got %d", set.TotalQuestions)
	}
	if set.ScoredQuestions > blueprint.ScoredQuestions {
		t.Errorf("scored = %d exceeds cap %d", set.ScoredQuestions, blueprint.ScoredQuestions)
	}
	if set.TotalQuestions <= blueprint.ScoredQuestions && set.ScoredQuestions != set.TotalQuestions {
		t.Errorf("with %d total, all should be scored; got %d", set.TotalQuestions, set.ScoredQuestions)
	}
}

func TestComposeEmptyProvider(t *testing.T) {
	bp := blueprint.Default()
	provider := &fakeProvider{deliver: func(generator.TaskRequest) int { return 0 }}

	set, err := newComposer(provider, 1).Compose(context.Background(), bp, 1)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if set.TotalQuestions != 0 || set.ScoredQuestions != 0 {
		t.Errorf("empty provider should yield an empty set, got %+v", set)
	}
}
