package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/certprep/dva-practice-backend/internal/model"
)

// SessionRepository handles exam session data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `session_id, user_id, set_id, started_at, time_limit,
	current_question_index, is_completed, COALESCE(ended_reason, '')`

// GetByID retrieves a session by its UUID.
func (r *SessionRepository) GetByID(ctx context.Context, sessionID uuid.UUID) (*model.Session, error) {
	s := &model.Session{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM user_sessions WHERE session_id = $1`, sessionID,
	).Scan(&s.SessionID, &s.UserID, &s.SetID, &s.StartedAt, &s.TimeLimit,
		&s.CurrentQuestionIndex, &s.IsCompleted, &s.EndedReason)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetActiveByUserAndSet retrieves the non-completed session for a
// (user, set) pair, if one exists.
func (r *SessionRepository) GetActiveByUserAndSet(ctx context.Context, userID string, setID uuid.UUID) (*model.Session, error) {
	s := &model.Session{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM user_sessions
		 WHERE user_id = $1 AND set_id = $2 AND NOT is_completed`, userID, setID,
	).Scan(&s.SessionID, &s.UserID, &s.SetID, &s.StartedAt, &s.TimeLimit,
		&s.CurrentQuestionIndex, &s.IsCompleted, &s.EndedReason)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new session. The partial unique index on active
// (user, set) pairs makes concurrent starts collide: the loser gets
// pgx.ErrNoRows and should re-fetch the winner's session.
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO user_sessions
		 (session_id, user_id, set_id, started_at, time_limit, current_question_index, is_completed)
		 VALUES ($1, $2, $3, $4, $5, 0, FALSE)
		 ON CONFLICT (user_id, set_id) WHERE NOT is_completed DO NOTHING
		 RETURNING session_id`,
		s.SessionID, s.UserID, s.SetID, s.StartedAt, s.TimeLimit,
	).Scan(&s.SessionID)
}

// AdvanceIndex moves the session cursor from fromIndex to fromIndex+1.
// The WHERE clause on the current value makes the advance a compare-and-
// swap: it reports false when another request already moved the cursor,
// so concurrent submissions for the same question cannot both land.
func (r *SessionRepository) AdvanceIndex(ctx context.Context, sessionID uuid.UUID, fromIndex int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_sessions
		 SET current_question_index = $2 + 1
		 WHERE session_id = $1 AND current_question_index = $2 AND NOT is_completed`,
		sessionID, fromIndex)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Complete marks a session as completed with the given end reason.
// Completion is sticky: a session already completed keeps its original
// reason.
func (r *SessionRepository) Complete(ctx context.Context, sessionID uuid.UUID, reason model.EndedReason) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_sessions
		 SET is_completed = TRUE, ended_reason = $2
		 WHERE session_id = $1 AND NOT is_completed`,
		sessionID, string(reason))
	return err
}
