package generator

import (
	"fmt"
	"strings"

	"github.com/certprep/dva-practice-backend/internal/model"
)

// buildQuestionPrompt writes the generation prompt for one (domain, task)
// batch. The set number is included as a uniqueness factor so different
// practice sets get distinct questions for the same task.
func buildQuestionPrompt(req TaskRequest) string {
	return fmt.Sprintf(`Generate %d AWS Certified Developer Associate (DVA-C02) exam questions for Practice Set #%d.

CRITICAL REQUIREMENTS:
- Domain: %s (%.0f%% of exam)
- Task: %s
- Questions must be UNIQUE and not duplicate any previous sets
- Follow exact DVA-C02 exam format and difficulty
- Include both multiple-choice (4 options) and multiple-response (5+ options) questions
- Mix scenario-based and knowledge-based questions
- Ensure practical, hands-on focus matching real exam

Focus Areas:
- AWS Services: %s
- Key Concepts: %s
- Set Uniqueness Factor: Practice Set #%d - ensure questions are distinct

Question Requirements:
- Scenario-based questions with realistic use cases
- Code snippets where appropriate (Python, Node.js, Java)
- AWS CLI commands and SDK usage examples
- Troubleshooting scenarios with logs and error messages
- Best practices and anti-patterns
- Security considerations and IAM policies
- Performance optimization techniques

Output Format (Valid JSON only):
{
    "questions": [
        {
            "question_type": "multiple_choice",
            "question": "A developer is building a serverless application...",
            "options": ["Option A", "Option B", "Option C", "Option D"],
            "correct_answers": ["Option B"],
            "explanation": "Detailed explanation with AWS documentation references...",
            "difficulty": "medium",
            "aws_services": ["Lambda", "API Gateway"],
            "scenario_based": true
        }
    ]
}`,
		req.Count, req.SetNumber,
		titleCase(req.Domain), req.DomainWeight*100,
		req.TaskDescription,
		strings.Join(req.FocusServices, ", "),
		strings.Join(req.FocusConcepts, ", "),
		req.SetNumber,
	)
}

// buildExplanationPrompt writes the on-demand explanation prompt for a
// question and the user's submitted answers.
func buildExplanationPrompt(q model.Question, userAnswers []string) string {
	return fmt.Sprintf(`As an AWS Certified Developer Associate expert, provide a comprehensive explanation for this exam question:

QUESTION: %s
OPTIONS: %s
CORRECT ANSWER(S): %s
USER'S ANSWER(S): %s
DOMAIN: %s
AWS SERVICES: %s
DIFFICULTY: %s

Please provide:
1. **Why the correct answer is right**: Detailed technical explanation
2. **Why other options are incorrect**: Specific reasons for each wrong option
3. **Key AWS concepts**: Core developer concepts being tested
4. **Code examples**: Relevant SDK code, CLI commands, or configuration
5. **Best practices**: AWS development best practices related to this topic
6. **Common mistakes**: What developers often get wrong in this area
7. **Further reading**: Specific AWS documentation sections to study

Focus on practical, hands-on knowledge that a certified AWS developer should possess.
Include real-world scenarios and implementation details.`,
		q.Question,
		strings.Join(q.Options, ", "),
		strings.Join(q.CorrectAnswers, ", "),
		strings.Join(userAnswers, ", "),
		titleCase(q.Domain),
		strings.Join(q.AWSServices, ", "),
		q.Difficulty,
	)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
