package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/certprep/dva-practice-backend/internal/model"
)

// ResponseRepository handles answer record data access. Responses are
// append-only: there is no update path.
type ResponseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository creates a new ResponseRepository.
func NewResponseRepository(pool *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

// Insert appends one response record.
func (r *ResponseRepository) Insert(ctx context.Context, resp *model.Response) error {
	selected, err := json.Marshal(resp.SelectedAnswers)
	if err != nil {
		return fmt.Errorf("marshal selected answers: %w", err)
	}
	correct, err := json.Marshal(resp.CorrectAnswers)
	if err != nil {
		return fmt.Errorf("marshal correct answers: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO dva_responses
		 (user_id, session_id, set_id, question_id, selected_answers, correct_answers,
		  is_correct, is_scored, domain, difficulty, skipped, time_spent, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		resp.UserID, resp.SessionID, resp.SetID, resp.QuestionID, selected, correct,
		resp.IsCorrect, resp.IsScored, resp.Domain, string(resp.Difficulty),
		resp.Skipped, resp.TimeSpent, resp.SubmittedAt,
	)
	return err
}

// ListBySession retrieves all responses recorded for a session in
// submission order.
func (r *ResponseRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Response, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, session_id, set_id, question_id, selected_answers, correct_answers,
		        is_correct, is_scored, domain, difficulty, skipped, time_spent, submitted_at
		 FROM dva_responses
		 WHERE session_id = $1
		 ORDER BY submitted_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var resp model.Response
		var selected, correct []byte
		if err := rows.Scan(
			&resp.UserID, &resp.SessionID, &resp.SetID, &resp.QuestionID, &selected, &correct,
			&resp.IsCorrect, &resp.IsScored, &resp.Domain, &resp.Difficulty,
			&resp.Skipped, &resp.TimeSpent, &resp.SubmittedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(selected, &resp.SelectedAnswers); err != nil {
			return nil, fmt.Errorf("decode selected answers: %w", err)
		}
		if err := json.Unmarshal(correct, &resp.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("decode correct answers: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// ListByUserAndSet retrieves all of a user's responses against one set,
// across sessions. Used for the per-user progress overlay on set detail.
func (r *ResponseRepository) ListByUserAndSet(ctx context.Context, userID string, setID uuid.UUID) ([]model.Response, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, session_id, set_id, question_id, selected_answers, correct_answers,
		        is_correct, is_scored, domain, difficulty, skipped, time_spent, submitted_at
		 FROM dva_responses
		 WHERE user_id = $1 AND set_id = $2
		 ORDER BY submitted_at ASC`, userID, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var resp model.Response
		var selected, correct []byte
		if err := rows.Scan(
			&resp.UserID, &resp.SessionID, &resp.SetID, &resp.QuestionID, &selected, &correct,
			&resp.IsCorrect, &resp.IsScored, &resp.Domain, &resp.Difficulty,
			&resp.Skipped, &resp.TimeSpent, &resp.SubmittedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(selected, &resp.SelectedAnswers); err != nil {
			return nil, fmt.Errorf("decode selected answers: %w", err)
		}
		if err := json.Unmarshal(correct, &resp.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("decode correct answers: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}
