package model

import (
	"errors"
	"fmt"
)

// QuestionType enumerates the supported answer formats.
type QuestionType string

const (
	QuestionTypeMultipleChoice   QuestionType = "multiple_choice"
	QuestionTypeMultipleResponse QuestionType = "multiple_response"
)

// Difficulty enumerates question difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a single DVA-C02 exam question as generated by the content
// provider and stored inside a practice set document.
type Question struct {
	QuestionID     string       `json:"question_id"`
	Domain         string       `json:"domain"`
	TaskNumber     int          `json:"task_number"`
	QuestionType   QuestionType `json:"question_type"`
	Question       string       `json:"question"`
	Options        []string     `json:"options"`
	CorrectAnswers []string     `json:"correct_answers"`
	Explanation    string       `json:"explanation"`
	Difficulty     Difficulty   `json:"difficulty"`
	AWSServices    []string     `json:"aws_services"`
	IsScored       bool         `json:"is_scored"`
	ScenarioBased  bool         `json:"scenario_based"`
}

// Validate checks the structural invariants of a question. It is applied
// at the provider boundary so malformed generator output never reaches
// business logic or the store.
func (q *Question) Validate() error {
	if q.QuestionID == "" {
		return errors.New("question_id is empty")
	}
	if q.Question == "" {
		return errors.New("question text is empty")
	}
	switch q.QuestionType {
	case QuestionTypeMultipleChoice, QuestionTypeMultipleResponse:
	default:
		return fmt.Errorf("unknown question_type %q", q.QuestionType)
	}
	switch q.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("unknown difficulty %q", q.Difficulty)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question has %d options, need at least 2", len(q.Options))
	}
	if len(q.CorrectAnswers) == 0 {
		return errors.New("question has no correct answers")
	}
	if q.QuestionType == QuestionTypeMultipleChoice && len(q.CorrectAnswers) != 1 {
		return fmt.Errorf("multiple_choice question has %d correct answers, want exactly 1", len(q.CorrectAnswers))
	}

	options := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		options[o] = struct{}{}
	}
	for _, a := range q.CorrectAnswers {
		if _, ok := options[a]; !ok {
			return fmt.Errorf("correct answer %q is not one of the options", a)
		}
	}
	return nil
}
