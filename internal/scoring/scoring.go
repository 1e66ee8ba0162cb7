// Package scoring holds the pure exam scoring functions: correctness
// checks, the 100-1000 scaled-score conversion, domain-level diagnostics
// and pacing analysis. Everything here is deterministic given its inputs.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/certprep/dva-practice-backend/internal/blueprint"
	"github.com/certprep/dva-practice-backend/internal/clock"
	"github.com/certprep/dva-practice-backend/internal/model"
)

// Pacing thresholds in seconds per question.
const (
	paceGoodLimit = 120
	paceSlowLimit = 180
)

// recommendationThreshold is the domain accuracy below which a study
// recommendation is emitted.
const recommendationThreshold = 70.0

// IsCorrect reports whether the selected answers exactly match the
// correct answers as sets. Order never matters and there is no partial
// credit: a missing or extra selection makes the whole answer wrong.
func IsCorrect(selected, correct []string) bool {
	if len(correct) == 0 {
		return false
	}
	sel := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		sel[s] = struct{}{}
	}
	cor := make(map[string]struct{}, len(correct))
	for _, c := range correct {
		cor[c] = struct{}{}
	}
	if len(sel) != len(cor) {
		return false
	}
	for c := range cor {
		if _, ok := sel[c]; !ok {
			return false
		}
	}
	return true
}

// ScaledScore maps a raw percentage (0-100) onto the AWS 100-1000 scale.
func ScaledScore(rawPercentage float64) int {
	return int(100 + (rawPercentage/100)*900)
}

// Passed reports whether a scaled score meets the fixed passing bar.
func Passed(scaledScore int) bool {
	return scaledScore >= blueprint.PassingScore
}

// LetterGrade converts a scaled score to a letter grade. The highest
// threshold not exceeding the score wins.
func LetterGrade(scaledScore int) string {
	switch {
	case scaledScore >= 900:
		return "A+"
	case scaledScore >= 850:
		return "A"
	case scaledScore >= 800:
		return "A-"
	case scaledScore >= 750:
		return "B+"
	case scaledScore >= 720:
		return "B"
	case scaledScore >= 650:
		return "C"
	default:
		return "F"
	}
}

// Readiness gives a coarse exam-readiness assessment for a scaled score.
func Readiness(scaledScore int) string {
	switch {
	case scaledScore >= 800:
		return "Excellent - Well prepared for the exam"
	case scaledScore >= blueprint.PassingScore:
		return "Good - Ready for the exam with minor review"
	case scaledScore >= 650:
		return "Fair - Need more preparation in weak domains"
	default:
		return "Poor - Significant study required before attempting exam"
	}
}

// DomainStatus labels a domain accuracy percentage.
func DomainStatus(accuracy float64) string {
	switch {
	case accuracy >= 80:
		return "Strong"
	case accuracy >= 60:
		return "Needs Improvement"
	default:
		return "Weak"
	}
}

// PaceLabel labels the average seconds spent per question.
func PaceLabel(avgSecondsPerQuestion float64) string {
	switch {
	case avgSecondsPerQuestion <= paceGoodLimit:
		return "Good"
	case avgSecondsPerQuestion <= paceSlowLimit:
		return "Slow"
	default:
		return "Too Slow"
	}
}

// ExamResults is the headline score block of a report.
type ExamResults struct {
	ScaledScore   int     `json:"scaled_score"`
	RawPercentage float64 `json:"raw_percentage"`
	Passed        bool    `json:"passed"`
	PassingScore  int     `json:"passing_score"`
	Result        string  `json:"result"`
	Grade         string  `json:"grade"`
}

// QuestionBreakdown counts responses by outcome.
type QuestionBreakdown struct {
	TotalQuestions    int `json:"total_questions"`
	ScoredQuestions   int `json:"scored_questions"`
	UnscoredQuestions int `json:"unscored_questions"`
	Answered          int `json:"answered"`
	Correct           int `json:"correct"`
	Skipped           int `json:"skipped"`
	Incorrect         int `json:"incorrect"`
}

// DomainStats summarizes performance within one knowledge domain.
type DomainStats struct {
	TotalQuestions int     `json:"total_questions"`
	Answered       int     `json:"answered"`
	Correct        int     `json:"correct"`
	Accuracy       float64 `json:"accuracy"`
	Weight         float64 `json:"weight"`
	Status         string  `json:"status"`
}

// TimeAnalysis summarizes pacing over the session.
type TimeAnalysis struct {
	TotalTimeSpentMinutes         float64 `json:"total_time_spent_minutes"`
	AverageTimePerQuestionSeconds float64 `json:"average_time_per_question_seconds"`
	TimeRemaining                 int     `json:"time_remaining"`
	Pace                          string  `json:"pace"`
}

// SessionInfo identifies the scored session.
type SessionInfo struct {
	SessionID   uuid.UUID `json:"session_id"`
	SetNumber   int       `json:"set_number"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// ExamReport is the full post-exam analytics payload.
type ExamReport struct {
	ExamResults       ExamResults            `json:"exam_results"`
	QuestionBreakdown QuestionBreakdown      `json:"question_breakdown"`
	DomainPerformance map[string]DomainStats `json:"domain_performance"`
	TimeAnalysis      TimeAnalysis           `json:"time_analysis"`
	ExamReadiness     string                 `json:"exam_readiness"`
	Recommendations   []string               `json:"recommendations"`
	SessionInfo       SessionInfo            `json:"session_info"`
}

// BuildReport computes the complete exam report for a session. Only
// responses whose referenced question is scored (and which are not skips)
// count toward the scaled score; the denominator is the number of scored
// questions in the whole set, so unanswered scored questions cost points.
func BuildReport(
	bp *blueprint.Blueprint,
	session *model.Session,
	set *model.PracticeSet,
	responses []model.Response,
	now time.Time,
) *ExamReport {
	totalScored := set.ScoredCount()

	correctScored := 0
	for _, r := range responses {
		q, ok := set.QuestionByID(r.QuestionID)
		if !ok || !q.IsScored || r.Skipped {
			continue
		}
		if r.IsCorrect {
			correctScored++
		}
	}

	rawPercentage := 0.0
	if totalScored > 0 {
		rawPercentage = float64(correctScored) / float64(totalScored) * 100
	}
	scaled := ScaledScore(rawPercentage)
	passed := Passed(scaled)

	result := "FAIL"
	if passed {
		result = "PASS"
	}

	answered, correct, skipped := 0, 0, 0
	for _, r := range responses {
		if r.Skipped {
			skipped++
			continue
		}
		answered++
		if r.IsCorrect {
			correct++
		}
	}

	domainStats := domainPerformance(bp, set, responses)

	return &ExamReport{
		ExamResults: ExamResults{
			ScaledScore:   scaled,
			RawPercentage: round1(rawPercentage),
			Passed:        passed,
			PassingScore:  blueprint.PassingScore,
			Result:        result,
			Grade:         LetterGrade(scaled),
		},
		QuestionBreakdown: QuestionBreakdown{
			TotalQuestions:    len(set.Questions),
			ScoredQuestions:   totalScored,
			UnscoredQuestions: len(set.Questions) - totalScored,
			Answered:          answered,
			Correct:           correct,
			Skipped:           skipped,
			Incorrect:         answered - correct,
		},
		DomainPerformance: domainStats,
		TimeAnalysis:      timeAnalysis(session, responses, now),
		ExamReadiness:     Readiness(scaled),
		Recommendations:   Recommendations(bp, domainStats),
		SessionInfo: SessionInfo{
			SessionID:   session.SessionID,
			SetNumber:   set.SetNumber,
			StartedAt:   session.StartedAt,
			CompletedAt: now,
		},
	}
}

// domainPerformance aggregates accuracy per domain over all responses,
// skips included. Domains without any response are omitted.
func domainPerformance(bp *blueprint.Blueprint, set *model.PracticeSet, responses []model.Response) map[string]DomainStats {
	stats := make(map[string]DomainStats)

	for _, d := range bp.Domains() {
		domainQuestions := 0
		for _, q := range set.Questions {
			if q.Domain == d.Name {
				domainQuestions++
			}
		}

		total, correct := 0, 0
		for _, r := range responses {
			q, ok := set.QuestionByID(r.QuestionID)
			if !ok || q.Domain != d.Name {
				continue
			}
			total++
			if r.IsCorrect {
				correct++
			}
		}
		if total == 0 {
			continue
		}

		accuracy := float64(correct) / float64(total) * 100
		stats[d.Name] = DomainStats{
			TotalQuestions: domainQuestions,
			Answered:       total,
			Correct:        correct,
			Accuracy:       round1(accuracy),
			Weight:         d.Weight * 100,
			Status:         DomainStatus(accuracy),
		}
	}
	return stats
}

func timeAnalysis(session *model.Session, responses []model.Response, now time.Time) TimeAnalysis {
	totalSpent := 0
	answered := 0
	for _, r := range responses {
		if r.Skipped {
			continue
		}
		answered++
		if r.TimeSpent != nil {
			totalSpent += *r.TimeSpent
		}
	}

	avg := 0.0
	if answered > 0 {
		avg = float64(totalSpent) / float64(answered)
	}

	return TimeAnalysis{
		TotalTimeSpentMinutes:         round1(float64(totalSpent) / 60),
		AverageTimePerQuestionSeconds: round1(avg),
		TimeRemaining:                 clock.Remaining(session.StartedAt, session.TimeLimit, now),
		Pace:                          PaceLabel(avg),
	}
}

// Recommendations produces one study hint per weak domain (accuracy below
// 70%), naming that domain's focus services.
func Recommendations(bp *blueprint.Blueprint, stats map[string]DomainStats) []string {
	recs := []string{}
	for _, d := range bp.Domains() {
		s, ok := stats[d.Name]
		if !ok || s.Accuracy >= recommendationThreshold {
			continue
		}
		recs = append(recs, fmt.Sprintf(
			"Focus on %s domain - review %s services",
			titleCase(d.Name), strings.Join(d.Services, ", "),
		))
	}
	return recs
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
