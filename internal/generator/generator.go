// Package generator talks to the LLM content provider that writes exam
// questions and answer explanations. Malformed provider output is reduced
// to an empty result at this boundary so set composition can continue
// with whatever the other tasks delivered.
package generator

import (
	"context"

	"github.com/certprep/dva-practice-backend/internal/model"
)

// TaskRequest asks for a batch of questions for one (domain, task) pair.
// SetNumber seeds uniqueness across practice sets: the provider is told
// which set it is writing for so repeated batches diverge.
type TaskRequest struct {
	Domain          string
	DomainWeight    float64
	TaskNumber      int
	TaskDescription string
	Count           int
	SetNumber       int
	FocusServices   []string
	FocusConcepts   []string
}

// Provider generates exam questions. Implementations may return fewer
// questions than requested; callers must tolerate under-delivery.
type Provider interface {
	GenerateQuestions(ctx context.Context, req TaskRequest) ([]model.Question, error)
}

// Explainer produces free-text answer explanations for a question,
// independent of any session state.
type Explainer interface {
	ExplainAnswer(ctx context.Context, q model.Question, userAnswers []string) (string, error)
}
