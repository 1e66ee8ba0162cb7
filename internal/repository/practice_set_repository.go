package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/certprep/dva-practice-backend/internal/model"
)

// PracticeSetRepository handles practice set data access. Question lists
// are stored as a JSONB document per set: sets are written once by the
// composer and always read whole, so there is nothing to join on.
type PracticeSetRepository struct {
	pool *pgxpool.Pool
}

// NewPracticeSetRepository creates a new PracticeSetRepository.
func NewPracticeSetRepository(pool *pgxpool.Pool) *PracticeSetRepository {
	return &PracticeSetRepository{pool: pool}
}

const practiceSetColumns = `set_id, set_number, topic, questions, created_at,
	total_questions, scored_questions, unscored_questions, domain_distribution`

// Insert stores a freshly composed practice set.
func (r *PracticeSetRepository) Insert(ctx context.Context, set *model.PracticeSet) error {
	questions, err := json.Marshal(set.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	distribution, err := json.Marshal(set.DomainDistribution)
	if err != nil {
		return fmt.Errorf("marshal domain distribution: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO practice_sets
		 (set_id, set_number, topic, questions, created_at,
		  total_questions, scored_questions, unscored_questions, domain_distribution)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		set.SetID, set.SetNumber, set.Topic, questions, set.CreatedAt,
		set.TotalQuestions, set.ScoredQuestions, set.UnscoredQuestions, distribution,
	)
	return err
}

// GetByID retrieves a practice set by its UUID.
func (r *PracticeSetRepository) GetByID(ctx context.Context, setID uuid.UUID) (*model.PracticeSet, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+practiceSetColumns+` FROM practice_sets WHERE set_id = $1`, setID)
	return scanPracticeSet(row)
}

// GetBySetNumber retrieves a practice set by its ordinal number.
func (r *PracticeSetRepository) GetBySetNumber(ctx context.Context, setNumber int) (*model.PracticeSet, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+practiceSetColumns+` FROM practice_sets WHERE set_number = $1`, setNumber)
	return scanPracticeSet(row)
}

// GetByQuestionID retrieves the practice set containing the given
// question, using JSONB containment on the questions document.
func (r *PracticeSetRepository) GetByQuestionID(ctx context.Context, questionID string) (*model.PracticeSet, error) {
	filter, err := json.Marshal([]map[string]string{{"question_id": questionID}})
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+practiceSetColumns+` FROM practice_sets WHERE questions @> $1`, filter)
	return scanPracticeSet(row)
}

// List returns summaries of all stored sets ordered by set number.
func (r *PracticeSetRepository) List(ctx context.Context) ([]model.PracticeSetSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT set_id, set_number, total_questions, created_at
		 FROM practice_sets
		 ORDER BY set_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []model.PracticeSetSummary
	for rows.Next() {
		var s model.PracticeSetSummary
		if err := rows.Scan(&s.SetID, &s.SetNumber, &s.TotalQuestions, &s.CreatedAt); err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// Count returns the number of stored practice sets.
func (r *PracticeSetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM practice_sets`).Scan(&count)
	return count, err
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPracticeSet deserializes one practice set row, failing loudly on a
// malformed questions document rather than passing it downstream.
func scanPracticeSet(row rowScanner) (*model.PracticeSet, error) {
	set := &model.PracticeSet{}
	var questions, distribution []byte

	err := row.Scan(
		&set.SetID, &set.SetNumber, &set.Topic, &questions, &set.CreatedAt,
		&set.TotalQuestions, &set.ScoredQuestions, &set.UnscoredQuestions, &distribution,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(questions, &set.Questions); err != nil {
		return nil, fmt.Errorf("decode questions document: %w", err)
	}
	if err := json.Unmarshal(distribution, &set.DomainDistribution); err != nil {
		return nil, fmt.Errorf("decode domain distribution: %w", err)
	}
	return set, nil
}
