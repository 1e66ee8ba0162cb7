package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/certprep/dva-practice-backend/internal/generator"
	"github.com/certprep/dva-practice-backend/internal/model"
	"github.com/certprep/dva-practice-backend/internal/scoring"
)

// ExplanationResult is the on-demand detailed explanation payload.
type ExplanationResult struct {
	QuestionID          string             `json:"question_id"`
	Domain              string             `json:"domain"`
	QuestionType        model.QuestionType `json:"question_type"`
	Difficulty          model.Difficulty   `json:"difficulty"`
	AWSServices         []string           `json:"aws_services"`
	UserAnswers         []string           `json:"user_answers"`
	CorrectAnswers      []string           `json:"correct_answers"`
	UserWasCorrect      bool               `json:"user_was_correct"`
	DetailedExplanation string             `json:"detailed_explanation"`
	GeneratedBy         string             `json:"generated_by"`
}

// ExplanationService produces detailed per-question explanations through
// the content provider, contrasting the user's answer with the correct
// one.
type ExplanationService struct {
	sets        PracticeSetStore
	explainer   generator.Explainer
	generatedBy string
	log         zerolog.Logger
}

// NewExplanationService creates an ExplanationService. generatedBy names
// the provider model in responses.
func NewExplanationService(sets PracticeSetStore, explainer generator.Explainer, generatedBy string, log zerolog.Logger) *ExplanationService {
	return &ExplanationService{
		sets:        sets,
		explainer:   explainer,
		generatedBy: generatedBy,
		log:         log.With().Str("component", "explanation_service").Logger(),
	}
}

// Explain looks the question up across all stored sets and asks the
// provider for a detailed explanation of the user's answer.
func (s *ExplanationService) Explain(ctx context.Context, questionID string, userAnswers []string) (*ExplanationResult, error) {
	set, err := s.sets.GetByQuestionID(ctx, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("locate question: %w", err)
	}
	question, ok := set.QuestionByID(questionID)
	if !ok {
		return nil, ErrQuestionNotFound
	}

	explanation, err := s.explainer.ExplainAnswer(ctx, question, userAnswers)
	if err != nil {
		s.log.Error().Err(err).
			Str("question_id", questionID).
			Msg("explanation request failed")
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, err)
	}

	return &ExplanationResult{
		QuestionID:          question.QuestionID,
		Domain:              question.Domain,
		QuestionType:        question.QuestionType,
		Difficulty:          question.Difficulty,
		AWSServices:         question.AWSServices,
		UserAnswers:         userAnswers,
		CorrectAnswers:      question.CorrectAnswers,
		UserWasCorrect:      scoring.IsCorrect(userAnswers, question.CorrectAnswers),
		DetailedExplanation: explanation,
		GeneratedBy:         s.generatedBy,
	}, nil
}
