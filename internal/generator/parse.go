package generator

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/certprep/dva-practice-backend/internal/model"
)

// generatedQuestion is the shape Gemini is asked to emit per question.
type generatedQuestion struct {
	QuestionType   string   `json:"question_type"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correct_answers"`
	Explanation    string   `json:"explanation"`
	Difficulty     string   `json:"difficulty"`
	AWSServices    []string `json:"aws_services"`
	ScenarioBased  bool     `json:"scenario_based"`
}

type generatedBatch struct {
	Questions []generatedQuestion `json:"questions"`
}

// parseQuestions extracts the JSON payload from a raw model response and
// converts it into validated questions. Candidates that fail validation
// are dropped rather than failing the whole batch.
func parseQuestions(raw, domain string, taskNumber int) ([]model.Question, error) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var batch generatedBatch
	if err := json.Unmarshal([]byte(jsonStr), &batch); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	questions := make([]model.Question, 0, len(batch.Questions))
	for _, gq := range batch.Questions {
		questionType := gq.QuestionType
		if questionType == "" {
			questionType = string(model.QuestionTypeMultipleChoice)
		}
		difficulty := gq.Difficulty
		if difficulty == "" {
			difficulty = string(model.DifficultyMedium)
		}

		q := model.Question{
			QuestionID:     uuid.New().String(),
			Domain:         domain,
			TaskNumber:     taskNumber,
			QuestionType:   model.QuestionType(questionType),
			Question:       gq.Question,
			Options:        gq.Options,
			CorrectAnswers: gq.CorrectAnswers,
			Explanation:    gq.Explanation,
			Difficulty:     model.Difficulty(difficulty),
			AWSServices:    gq.AWSServices,
			IsScored:       true,
			ScenarioBased:  gq.ScenarioBased,
		}
		if err := q.Validate(); err != nil {
			continue
		}
		questions = append(questions, q)
	}

	return questions, nil
}

// extractJSON finds the outermost JSON object in a string, handling
// nested braces and braces inside quoted strings. Models often wrap
// their JSON in prose or markdown fences.
func extractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
