package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/certprep/dva-practice-backend/internal/blueprint"
	"github.com/certprep/dva-practice-backend/internal/model"
)

// UserResponseView is a user's recorded answer attached to a question in
// the set detail view.
type UserResponseView struct {
	SelectedAnswers []string `json:"selected_answers"`
	IsCorrect       bool     `json:"is_correct"`
	Skipped         bool     `json:"skipped"`
}

// SetQuestionView is one question in the set detail payload. Correct
// answers and explanations appear only when answers were requested.
type SetQuestionView struct {
	Number         int                `json:"number"`
	QuestionID     string             `json:"question_id"`
	Domain         string             `json:"domain"`
	QuestionType   model.QuestionType `json:"question_type"`
	Question       string             `json:"question"`
	Options        []string           `json:"options"`
	Difficulty     model.Difficulty   `json:"difficulty"`
	AWSServices    []string           `json:"aws_services"`
	IsScored       bool               `json:"is_scored"`
	ScenarioBased  bool               `json:"scenario_based"`
	CorrectAnswers []string           `json:"correct_answers,omitempty"`
	Explanation    string             `json:"explanation,omitempty"`
	UserResponse   *UserResponseView  `json:"user_response,omitempty"`
}

// UserProgressView summarizes a user's attempts against one set.
type UserProgressView struct {
	Attempted            int     `json:"attempted"`
	Correct              int     `json:"correct"`
	Skipped              int     `json:"skipped"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// SetInfo is the header block of a set detail payload.
type SetInfo struct {
	SetID             uuid.UUID `json:"set_id"`
	SetNumber         int       `json:"set_number"`
	Topic             string    `json:"topic"`
	TotalQuestions    int       `json:"total_questions"`
	ScoredQuestions   int       `json:"scored_questions"`
	UnscoredQuestions int       `json:"unscored_questions"`
}

// SetDetail is the full practice set payload served by the set questions
// endpoint.
type SetDetail struct {
	SetInfo               SetInfo           `json:"set_info"`
	ExamFormat            string            `json:"exam_format"`
	TimeLimitMinutes      int               `json:"time_limit_minutes"`
	PassingScore          int               `json:"passing_score"`
	RequestedDistribution map[string]int    `json:"requested_distribution"`
	ActualDistribution    map[string]int    `json:"actual_distribution"`
	IncludesAnswers       bool              `json:"includes_answers"`
	Questions             []SetQuestionView `json:"questions"`
	UserProgress          *UserProgressView `json:"user_progress,omitempty"`
}

// PracticeSetService serves stored practice sets for listing and review.
type PracticeSetService struct {
	sets      PracticeSetStore
	responses ResponseStore
	log       zerolog.Logger
}

// NewPracticeSetService creates a PracticeSetService.
func NewPracticeSetService(sets PracticeSetStore, responses ResponseStore, log zerolog.Logger) *PracticeSetService {
	return &PracticeSetService{
		sets:      sets,
		responses: responses,
		log:       log.With().Str("component", "practice_set_service").Logger(),
	}
}

// ListSets returns summaries of all stored sets. An empty store yields an
// empty list, not an error.
func (s *PracticeSetService) ListSets(ctx context.Context) ([]model.PracticeSetSummary, error) {
	sets, err := s.sets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list practice sets: %w", err)
	}
	if sets == nil {
		sets = []model.PracticeSetSummary{}
	}
	return sets, nil
}

// GetSetByNumber returns the full detail of one set. The set number is
// range-checked against the fixed batch size before touching the store,
// so an out-of-range number is a validation error rather than a miss.
// When userID is non-empty the user's prior responses are overlaid onto
// the questions.
func (s *PracticeSetService) GetSetByNumber(ctx context.Context, setNumber int, includeAnswers bool, userID string) (*SetDetail, error) {
	if setNumber < 1 || setNumber > blueprint.TotalSets {
		return nil, ErrSetNumberOutOfRange
	}

	set, err := s.sets.GetBySetNumber(ctx, setNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSetNotFound
		}
		return nil, fmt.Errorf("load practice set: %w", err)
	}

	var byQuestion map[string]UserResponseView
	var progress *UserProgressView
	if userID != "" {
		responses, err := s.responses.ListByUserAndSet(ctx, userID, set.SetID)
		if err != nil {
			return nil, fmt.Errorf("load user responses: %w", err)
		}
		byQuestion, progress = overlayProgress(responses, len(set.Questions))
	}

	questions := make([]SetQuestionView, 0, len(set.Questions))
	for i, q := range set.Questions {
		view := SetQuestionView{
			Number:        i + 1,
			QuestionID:    q.QuestionID,
			Domain:        q.Domain,
			QuestionType:  q.QuestionType,
			Question:      q.Question,
			Options:       q.Options,
			Difficulty:    q.Difficulty,
			AWSServices:   q.AWSServices,
			IsScored:      q.IsScored,
			ScenarioBased: q.ScenarioBased,
		}
		if includeAnswers {
			view.CorrectAnswers = q.CorrectAnswers
			view.Explanation = q.Explanation
		}
		if ur, ok := byQuestion[q.QuestionID]; ok {
			view.UserResponse = &ur
		}
		questions = append(questions, view)
	}

	return &SetDetail{
		SetInfo: SetInfo{
			SetID:             set.SetID,
			SetNumber:         set.SetNumber,
			Topic:             set.Topic,
			TotalQuestions:    len(set.Questions),
			ScoredQuestions:   set.ScoredCount(),
			UnscoredQuestions: len(set.Questions) - set.ScoredCount(),
		},
		ExamFormat:            blueprint.ExamName,
		TimeLimitMinutes:      blueprint.TimeLimitSeconds / 60,
		PassingScore:          blueprint.PassingScore,
		RequestedDistribution: set.DomainDistribution,
		ActualDistribution:    set.ActualDomainCounts(),
		IncludesAnswers:       includeAnswers,
		Questions:             questions,
		UserProgress:          progress,
	}, nil
}

// overlayProgress folds a user's responses into a per-question lookup and
// aggregate progress. When the same question was answered in several
// sessions the latest response wins; the list arrives in submission order.
func overlayProgress(responses []model.Response, totalQuestions int) (map[string]UserResponseView, *UserProgressView) {
	byQuestion := make(map[string]UserResponseView, len(responses))
	for _, r := range responses {
		byQuestion[r.QuestionID] = UserResponseView{
			SelectedAnswers: r.SelectedAnswers,
			IsCorrect:       r.IsCorrect,
			Skipped:         r.Skipped,
		}
	}

	attempted, correct, skipped := 0, 0, 0
	for _, v := range byQuestion {
		attempted++
		if v.Skipped {
			skipped++
		} else if v.IsCorrect {
			correct++
		}
	}

	completion := 0.0
	if totalQuestions > 0 {
		completion = math.Round(float64(attempted)/float64(totalQuestions)*1000) / 10
	}

	return byQuestion, &UserProgressView{
		Attempted:            attempted,
		Correct:              correct,
		Skipped:              skipped,
		CompletionPercentage: completion,
	}
}
