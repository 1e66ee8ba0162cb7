package scoring

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/certprep/dva-practice-backend/internal/blueprint"
	"github.com/certprep/dva-practice-backend/internal/model"
)

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		correct  []string
		want     bool
	}{
		{"exact match", []string{"A"}, []string{"A"}, true},
		{"order independent", []string{"B", "A"}, []string{"A", "B"}, true},
		{"missing selection", []string{"A"}, []string{"A", "B"}, false},
		{"extra selection", []string{"A", "B"}, []string{"A"}, false},
		{"wrong answer", []string{"C"}, []string{"A"}, false},
		{"empty selection", nil, []string{"A"}, false},
		{"duplicate selections collapse", []string{"A", "A"}, []string{"A"}, true},
		{"no correct answers", []string{"A"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCorrect(tt.selected, tt.correct); got != tt.want {
				t.Errorf("IsCorrect(%v, %v) = %v, want %v", tt.selected, tt.correct, got, tt.want)
			}
		})
	}
}

func TestScaledScoreBoundaries(t *testing.T) {
	if got := ScaledScore(0); got != 100 {
		t.Errorf("ScaledScore(0) = %d, want 100", got)
	}
	if got := ScaledScore(100); got != 1000 {
		t.Errorf("ScaledScore(100) = %d, want 1000", got)
	}
	if got := ScaledScore(50); got != 550 {
		t.Errorf("ScaledScore(50) = %d, want 550", got)
	}
}

func TestScaledScoreMonotonic(t *testing.T) {
	prev := -1
	for raw := 0; raw <= 100; raw++ {
		score := ScaledScore(float64(raw))
		if score < prev {
			t.Fatalf("ScaledScore(%d) = %d decreased below %d", raw, score, prev)
		}
		prev = score
	}
}

func TestPassed(t *testing.T) {
	if !Passed(720) {
		t.Error("720 should pass")
	}
	if Passed(719) {
		t.Error("719 should not pass")
	}
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{1000, "A+"}, {900, "A+"}, {899, "A"}, {850, "A"},
		{800, "A-"}, {750, "B+"}, {720, "B"}, {719, "C"},
		{650, "C"}, {649, "F"}, {100, "F"},
	}
	for _, tt := range tests {
		if got := LetterGrade(tt.score); got != tt.want {
			t.Errorf("LetterGrade(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestDomainStatus(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     string
	}{
		{100, "Strong"}, {80, "Strong"},
		{79.9, "Needs Improvement"}, {60, "Needs Improvement"},
		{59.9, "Weak"}, {0, "Weak"},
	}
	for _, tt := range tests {
		if got := DomainStatus(tt.accuracy); got != tt.want {
			t.Errorf("DomainStatus(%v) = %q, want %q", tt.accuracy, got, tt.want)
		}
	}
}

func TestPaceLabel(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{0, "Good"}, {120, "Good"}, {121, "Slow"}, {180, "Slow"}, {181, "Too Slow"},
	}
	for _, tt := range tests {
		if got := PaceLabel(tt.avg); got != tt.want {
			t.Errorf("PaceLabel(%v) = %q, want %q", tt.avg, got, tt.want)
		}
	}
}

func reportFixture() (*blueprint.Blueprint, *model.Session, *model.PracticeSet, []model.Response, time.Time) {
	bp := blueprint.Default()

	q1 := model.Question{
		QuestionID: "q1", Domain: "development", TaskNumber: 1,
		QuestionType: model.QuestionTypeMultipleChoice,
		Question:     "first", Options: []string{"A", "B"},
		CorrectAnswers: []string{"A"}, Difficulty: model.DifficultyMedium,
		IsScored: true,
	}
	q2 := model.Question{
		QuestionID: "q2", Domain: "security", TaskNumber: 1,
		QuestionType: model.QuestionTypeMultipleChoice,
		Question:     "second", Options: []string{"A", "B"},
		CorrectAnswers: []string{"B"}, Difficulty: model.DifficultyMedium,
		IsScored: true,
	}

	started := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	session := &model.Session{
		SessionID: uuid.New(),
		UserID:    "u1",
		SetID:     uuid.New(),
		StartedAt: started,
		TimeLimit: blueprint.TimeLimitSeconds,
	}
	set := &model.PracticeSet{
		SetID:     session.SetID,
		SetNumber: 3,
		Questions: []model.Question{q1, q2},
	}

	spent := 90
	responses := []model.Response{
		{
			SessionID: session.SessionID, QuestionID: "q1",
			SelectedAnswers: []string{"A"}, CorrectAnswers: []string{"A"},
			IsCorrect: true, IsScored: true, Domain: "development",
			TimeSpent: &spent,
		},
		{
			SessionID: session.SessionID, QuestionID: "q2",
			SelectedAnswers: []string{}, CorrectAnswers: []string{"B"},
			IsCorrect: false, IsScored: true, Domain: "security",
			Skipped: true,
		},
	}

	return bp, session, set, responses, started.Add(30 * time.Minute)
}

func TestBuildReportScenario(t *testing.T) {
	bp, session, set, responses, now := reportFixture()

	report := BuildReport(bp, session, set, responses, now)

	res := report.ExamResults
	if res.RawPercentage != 50 {
		t.Errorf("raw percentage = %v, want 50", res.RawPercentage)
	}
	if res.ScaledScore != 550 {
		t.Errorf("scaled score = %d, want 550", res.ScaledScore)
	}
	if res.Passed {
		t.Error("550 should not pass")
	}
	if res.Result != "FAIL" {
		t.Errorf("result = %q, want FAIL", res.Result)
	}
	if res.Grade != "F" {
		t.Errorf("grade = %q, want F", res.Grade)
	}

	bd := report.QuestionBreakdown
	if bd.ScoredQuestions != 2 || bd.Answered != 1 || bd.Correct != 1 || bd.Skipped != 1 || bd.Incorrect != 0 {
		t.Errorf("unexpected breakdown: %+v", bd)
	}

	dev, ok := report.DomainPerformance["development"]
	if !ok {
		t.Fatal("development domain missing from performance")
	}
	if dev.Accuracy != 100 || dev.Status != "Strong" {
		t.Errorf("development stats = %+v", dev)
	}
	sec, ok := report.DomainPerformance["security"]
	if !ok {
		t.Fatal("security domain missing from performance")
	}
	if sec.Accuracy != 0 || sec.Status != "Weak" {
		t.Errorf("security stats = %+v", sec)
	}
	if _, ok := report.DomainPerformance["deployment"]; ok {
		t.Error("deployment has no responses and should be omitted")
	}

	ta := report.TimeAnalysis
	if ta.AverageTimePerQuestionSeconds != 90 {
		t.Errorf("avg time = %v, want 90", ta.AverageTimePerQuestionSeconds)
	}
	if ta.Pace != "Good" {
		t.Errorf("pace = %q, want Good", ta.Pace)
	}
	if ta.TimeRemaining != blueprint.TimeLimitSeconds-1800 {
		t.Errorf("time remaining = %d", ta.TimeRemaining)
	}

	// Security accuracy 0% < 70% -> one recommendation naming its services.
	found := false
	for _, r := range report.Recommendations {
		if r == "Focus on Security domain - review IAM, Cognito, KMS, Secrets Manager, STS, Certificate Manager services" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected security recommendation, got %v", report.Recommendations)
	}
}

func TestBuildReportIdempotent(t *testing.T) {
	bp, session, set, responses, now := reportFixture()

	first := BuildReport(bp, session, set, responses, now)
	second := BuildReport(bp, session, set, responses, now)

	if !reflect.DeepEqual(first, second) {
		t.Error("BuildReport is not deterministic for identical inputs")
	}
}

func TestBuildReportEmptySet(t *testing.T) {
	bp := blueprint.Default()
	session := &model.Session{
		SessionID: uuid.New(),
		StartedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		TimeLimit: blueprint.TimeLimitSeconds,
	}
	set := &model.PracticeSet{SetNumber: 1}

	report := BuildReport(bp, session, set, nil, session.StartedAt.Add(time.Minute))

	if report.ExamResults.RawPercentage != 0 {
		t.Errorf("raw percentage = %v, want 0", report.ExamResults.RawPercentage)
	}
	if report.ExamResults.ScaledScore != 100 {
		t.Errorf("scaled score = %d, want 100", report.ExamResults.ScaledScore)
	}
	if len(report.DomainPerformance) != 0 {
		t.Errorf("expected no domain stats, got %v", report.DomainPerformance)
	}
}
