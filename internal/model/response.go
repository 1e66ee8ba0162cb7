package model

import (
	"time"

	"github.com/google/uuid"
)

// Response is one recorded answer (or skip) for a session question.
// Responses are append-only facts: they are written once at submission
// time and echo the question's scored flag, domain and difficulty so the
// scoring pass does not depend on the set document staying unchanged.
type Response struct {
	UserID          string      `json:"user_id"`
	SessionID       uuid.UUID   `json:"session_id"`
	SetID           uuid.UUID   `json:"set_id"`
	QuestionID      string      `json:"question_id"`
	SelectedAnswers []string    `json:"selected_answers"`
	CorrectAnswers  []string    `json:"correct_answers"`
	IsCorrect       bool        `json:"is_correct"`
	IsScored        bool        `json:"is_scored"`
	Domain          string      `json:"domain"`
	Difficulty      Difficulty  `json:"difficulty"`
	Skipped         bool        `json:"skipped"`
	TimeSpent       *int        `json:"time_spent,omitempty"` // seconds
	SubmittedAt     time.Time   `json:"submitted_at"`
}
