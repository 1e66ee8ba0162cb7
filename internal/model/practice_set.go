package model

import (
	"time"

	"github.com/google/uuid"
)

// PracticeSet is one generated 65-question practice exam. Questions are
// created once by the set composer and never mutated after persistence.
type PracticeSet struct {
	SetID     uuid.UUID  `json:"set_id"`
	SetNumber int        `json:"set_number"`
	Topic     string     `json:"topic"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`

	TotalQuestions    int `json:"total_questions"`
	ScoredQuestions   int `json:"scored_questions"`
	UnscoredQuestions int `json:"unscored_questions"`

	// DomainDistribution records the REQUESTED per-domain counts used
	// during composition. The delivered counts can be lower if the content
	// provider under-delivered; use ActualDomainCounts for a tally.
	DomainDistribution map[string]int `json:"domain_distribution"`
}

// QuestionByID returns the question with the given id, if present.
func (p *PracticeSet) QuestionByID(questionID string) (Question, bool) {
	for _, q := range p.Questions {
		if q.QuestionID == questionID {
			return q, true
		}
	}
	return Question{}, false
}

// ActualDomainCounts tallies the delivered questions per domain.
func (p *PracticeSet) ActualDomainCounts() map[string]int {
	counts := make(map[string]int)
	for _, q := range p.Questions {
		counts[q.Domain]++
	}
	return counts
}

// ScoredCount counts the questions that contribute to the scaled score.
func (p *PracticeSet) ScoredCount() int {
	n := 0
	for _, q := range p.Questions {
		if q.IsScored {
			n++
		}
	}
	return n
}

// PracticeSetSummary is the listing projection of a practice set.
type PracticeSetSummary struct {
	SetID          uuid.UUID `json:"set_id"`
	SetNumber      int       `json:"set_number"`
	TotalQuestions int       `json:"total_questions"`
	CreatedAt      time.Time `json:"created_at"`
}
