package service

import "errors"

// Sentinel errors surfaced by the service layer. Handlers translate these
// into the HTTP error taxonomy; everything else is an internal error.
var (
	ErrSetNotFound         = errors.New("practice set not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrSessionExpired      = errors.New("session time limit exceeded")
	ErrSessionCompleted    = errors.New("session already completed")
	ErrSubmitConflict      = errors.New("concurrent submission for this session")
	ErrSetNumberOutOfRange = errors.New("set number out of range")
	ErrProviderFailure     = errors.New("content provider request failed")
)
