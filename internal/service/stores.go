package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/certprep/dva-practice-backend/internal/model"
)

// PracticeSetStore is the practice set persistence the services need.
// Absent rows surface as pgx.ErrNoRows, matching the repository layer.
type PracticeSetStore interface {
	GetByID(ctx context.Context, setID uuid.UUID) (*model.PracticeSet, error)
	GetBySetNumber(ctx context.Context, setNumber int) (*model.PracticeSet, error)
	GetByQuestionID(ctx context.Context, questionID string) (*model.PracticeSet, error)
	List(ctx context.Context) ([]model.PracticeSetSummary, error)
	Count(ctx context.Context) (int64, error)
}

// SessionStore is the session persistence the services need.
type SessionStore interface {
	GetByID(ctx context.Context, sessionID uuid.UUID) (*model.Session, error)
	GetActiveByUserAndSet(ctx context.Context, userID string, setID uuid.UUID) (*model.Session, error)
	Create(ctx context.Context, s *model.Session) error
	AdvanceIndex(ctx context.Context, sessionID uuid.UUID, fromIndex int) (bool, error)
	Complete(ctx context.Context, sessionID uuid.UUID, reason model.EndedReason) error
}

// ResponseStore is the answer record persistence the services need.
type ResponseStore interface {
	Insert(ctx context.Context, resp *model.Response) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Response, error)
	ListByUserAndSet(ctx context.Context, userID string, setID uuid.UUID) ([]model.Response, error)
}

// SessionCoordinator covers the Redis-backed start time cache and the
// per-session submit lock.
type SessionCoordinator interface {
	SetStartTime(ctx context.Context, sessionID string, startedAt time.Time) error
	GetStartTime(ctx context.Context, sessionID string) (time.Time, bool, error)
	AcquireSubmitLock(ctx context.Context, sessionID string) (bool, error)
	ReleaseSubmitLock(ctx context.Context, sessionID string) error
}
