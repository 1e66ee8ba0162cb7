package model

import (
	"time"

	"github.com/google/uuid"
)

// EndedReason records why a session left the active state.
type EndedReason string

const (
	// EndedReasonCompleted means the user advanced past the last question.
	EndedReasonCompleted EndedReason = "completed"
	// EndedReasonTimeout means the wall-clock budget ran out.
	EndedReasonTimeout EndedReason = "timeout"
)

// Session is one user's timed attempt at a practice set. At most one
// non-completed session exists per (user, set) pair; starting again
// resumes the existing one.
type Session struct {
	SessionID            uuid.UUID   `json:"session_id"`
	UserID               string      `json:"user_id"`
	SetID                uuid.UUID   `json:"set_id"`
	StartedAt            time.Time   `json:"started_at"`
	TimeLimit            int         `json:"time_limit"` // seconds
	CurrentQuestionIndex int         `json:"current_question_index"`
	IsCompleted          bool        `json:"is_completed"`
	EndedReason          EndedReason `json:"ended_reason,omitempty"`
}

// StartSessionRequest is the payload for starting or resuming a session.
type StartSessionRequest struct {
	UserID string `json:"user_id" binding:"required,min=1,max=128"`
	SetID  string `json:"set_id" binding:"required,uuid"`
}

// SubmitAnswerRequest is the payload for answering the current question.
type SubmitAnswerRequest struct {
	QuestionID      string   `json:"question_id" binding:"required"`
	SelectedAnswers []string `json:"selected_answers" binding:"required,min=1"`
	TimeSpent       *int     `json:"time_spent" binding:"omitempty,min=0"` // seconds
}

// SkipQuestionRequest is the payload for skipping the current question.
type SkipQuestionRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
}

// ExplanationRequest is the payload for an on-demand answer explanation.
type ExplanationRequest struct {
	UserAnswers []string `json:"user_answers" binding:"required"`
}
