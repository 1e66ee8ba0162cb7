package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/certprep/dva-practice-backend/internal/blueprint"
	"github.com/certprep/dva-practice-backend/internal/clock"
	"github.com/certprep/dva-practice-backend/internal/model"
	"github.com/certprep/dva-practice-backend/internal/scoring"
)

// ExamInstructions is the static briefing returned when a session starts.
type ExamInstructions struct {
	Format       string `json:"format"`
	TimeLimit    string `json:"time_limit"`
	PassingScore string `json:"passing_score"`
	Note         string `json:"note"`
}

// StartExamResult describes a freshly started or resumed session.
type StartExamResult struct {
	SessionID        uuid.UUID        `json:"session_id"`
	SetNumber        int              `json:"set_number"`
	Resumed          bool             `json:"resumed"`
	TotalQuestions   int              `json:"total_questions"`
	CurrentQuestion  int              `json:"current_question"` // 0-based cursor
	TimeLimitMinutes int              `json:"time_limit_minutes"`
	TimeRemaining    int              `json:"time_remaining"` // seconds
	Instructions     ExamInstructions `json:"instructions"`
}

// PublicQuestion is a question as served during an active session: the
// correct answers and explanation stay hidden, but the number of answers
// to select is disclosed.
type PublicQuestion struct {
	QuestionID    string             `json:"question_id"`
	Domain        string             `json:"domain"`
	QuestionType  model.QuestionType `json:"question_type"`
	Question      string             `json:"question"`
	Options       []string           `json:"options"`
	Difficulty    model.Difficulty   `json:"difficulty"`
	AWSServices   []string           `json:"aws_services"`
	ScenarioBased bool               `json:"scenario_based"`
	SelectCount   int                `json:"select_count"`
}

// SessionProgress counts how far through the set the session is.
type SessionProgress struct {
	Answered  int `json:"answered"`
	Remaining int `json:"remaining"`
}

// CurrentQuestionResult is the active-session question payload. When the
// session has run out of questions, Completed is set and Question is nil.
type CurrentQuestionResult struct {
	SessionID      uuid.UUID       `json:"session_id"`
	Completed      bool            `json:"completed"`
	Message        string          `json:"message,omitempty"`
	QuestionNumber int             `json:"question_number,omitempty"`
	TotalQuestions int             `json:"total_questions"`
	TimeRemaining  int             `json:"time_remaining"` // seconds
	Question       *PublicQuestion `json:"question,omitempty"`
	Progress       SessionProgress `json:"progress"`
}

// SubmitAnswerResult reports the outcome of an answer or skip.
type SubmitAnswerResult struct {
	Correct               bool   `json:"correct"`
	IsScored              bool   `json:"is_scored"`
	Skipped               bool   `json:"skipped"`
	QuestionNumber        int    `json:"question_number"`
	NextQuestionAvailable bool   `json:"next_question_available"`
	ExamCompleted         bool   `json:"exam_completed"`
	Message               string `json:"message"`
}

// SessionService runs the exam session state machine: start or resume,
// serve the current question, accept answers and skips, and score.
type SessionService struct {
	bp        *blueprint.Blueprint
	sets      PracticeSetStore
	sessions  SessionStore
	responses ResponseStore
	coord     SessionCoordinator
	log       zerolog.Logger
}

// NewSessionService creates a SessionService.
func NewSessionService(
	bp *blueprint.Blueprint,
	sets PracticeSetStore,
	sessions SessionStore,
	responses ResponseStore,
	coord SessionCoordinator,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		bp:        bp,
		sets:      sets,
		sessions:  sessions,
		responses: responses,
		coord:     coord,
		log:       log.With().Str("component", "session_service").Logger(),
	}
}

// StartExam starts a timed session against a practice set, or resumes the
// user's active session on that set if one exists. The original start time
// and cursor survive a resume, so leaving and coming back never resets
// the clock.
func (s *SessionService) StartExam(ctx context.Context, userID string, setID uuid.UUID) (*StartExamResult, error) {
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSetNotFound
		}
		return nil, fmt.Errorf("load practice set: %w", err)
	}

	existing, err := s.sessions.GetActiveByUserAndSet(ctx, userID, setID)
	if err == nil {
		s.log.Info().
			Str("session_id", existing.SessionID.String()).
			Str("user_id", userID).
			Int("set_number", set.SetNumber).
			Msg("resuming active session")
		return s.startResult(ctx, existing, set, true), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load active session: %w", err)
	}

	session := &model.Session{
		SessionID: uuid.New(),
		UserID:    userID,
		SetID:     setID,
		StartedAt: time.Now().UTC(),
		TimeLimit: blueprint.TimeLimitSeconds,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a concurrent start race: the other request's session is
			// now the active one, resume it.
			winner, werr := s.sessions.GetActiveByUserAndSet(ctx, userID, setID)
			if werr != nil {
				return nil, fmt.Errorf("load winning session: %w", werr)
			}
			return s.startResult(ctx, winner, set, true), nil
		}
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := s.coord.SetStartTime(ctx, session.SessionID.String(), session.StartedAt); err != nil {
		s.log.Warn().Err(err).
			Str("session_id", session.SessionID.String()).
			Msg("failed to cache session start time")
	}

	s.log.Info().
		Str("session_id", session.SessionID.String()).
		Str("user_id", userID).
		Int("set_number", set.SetNumber).
		Msg("session started")
	return s.startResult(ctx, session, set, false), nil
}

func (s *SessionService) startResult(ctx context.Context, session *model.Session, set *model.PracticeSet, resumed bool) *StartExamResult {
	startedAt := s.resolveStartTime(ctx, session)
	return &StartExamResult{
		SessionID:        session.SessionID,
		SetNumber:        set.SetNumber,
		Resumed:          resumed,
		TotalQuestions:   len(set.Questions),
		CurrentQuestion:  session.CurrentQuestionIndex,
		TimeLimitMinutes: session.TimeLimit / 60,
		TimeRemaining:    clock.Remaining(startedAt, session.TimeLimit, time.Now().UTC()),
		Instructions: ExamInstructions{
			Format:       "Single and multiple choice questions",
			TimeLimit:    fmt.Sprintf("%d minutes", session.TimeLimit/60),
			PassingScore: fmt.Sprintf("%d/1000 (72%%)", blueprint.PassingScore),
			Note:         fmt.Sprintf("%d unscored questions are mixed in", blueprint.TotalQuestions-blueprint.ScoredQuestions),
		},
	}
}

// resolveStartTime prefers the cached start time and falls back to the
// stored session, re-priming the cache on a miss.
func (s *SessionService) resolveStartTime(ctx context.Context, session *model.Session) time.Time {
	cached, ok, err := s.coord.GetStartTime(ctx, session.SessionID.String())
	if err != nil {
		s.log.Warn().Err(err).
			Str("session_id", session.SessionID.String()).
			Msg("start time cache read failed")
		return session.StartedAt
	}
	if ok {
		return cached
	}
	if err := s.coord.SetStartTime(ctx, session.SessionID.String(), session.StartedAt); err != nil {
		s.log.Warn().Err(err).
			Str("session_id", session.SessionID.String()).
			Msg("failed to re-prime start time cache")
	}
	return session.StartedAt
}

// CurrentQuestion serves the question at the session cursor. Expiry is
// evaluated here, lazily: the first access past the time limit completes
// the session with a timeout reason and returns ErrSessionExpired, as do
// all later accesses. A session that walked past its last question is
// completed normally and reported as such.
func (s *SessionService) CurrentQuestion(ctx context.Context, sessionID uuid.UUID) (*CurrentQuestionResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.IsCompleted {
		if session.EndedReason == model.EndedReasonTimeout {
			return nil, ErrSessionExpired
		}
		return s.completedResult(session), nil
	}

	startedAt := s.resolveStartTime(ctx, session)
	now := time.Now().UTC()
	if clock.Expired(startedAt, session.TimeLimit, now) {
		if err := s.sessions.Complete(ctx, sessionID, model.EndedReasonTimeout); err != nil {
			return nil, fmt.Errorf("complete timed out session: %w", err)
		}
		s.log.Info().
			Str("session_id", sessionID.String()).
			Msg("session expired")
		return nil, ErrSessionExpired
	}

	set, err := s.sets.GetByID(ctx, session.SetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSetNotFound
		}
		return nil, fmt.Errorf("load practice set: %w", err)
	}

	idx := session.CurrentQuestionIndex
	if idx >= len(set.Questions) {
		if err := s.sessions.Complete(ctx, sessionID, model.EndedReasonCompleted); err != nil {
			return nil, fmt.Errorf("complete exhausted session: %w", err)
		}
		session.IsCompleted = true
		session.EndedReason = model.EndedReasonCompleted
		return s.completedResult(session), nil
	}

	q := set.Questions[idx]
	return &CurrentQuestionResult{
		SessionID:      session.SessionID,
		QuestionNumber: idx + 1,
		TotalQuestions: len(set.Questions),
		TimeRemaining:  clock.Remaining(startedAt, session.TimeLimit, now),
		Question: &PublicQuestion{
			QuestionID:    q.QuestionID,
			Domain:        q.Domain,
			QuestionType:  q.QuestionType,
			Question:      q.Question,
			Options:       q.Options,
			Difficulty:    q.Difficulty,
			AWSServices:   q.AWSServices,
			ScenarioBased: q.ScenarioBased,
			SelectCount:   len(q.CorrectAnswers),
		},
		Progress: SessionProgress{
			Answered:  idx,
			Remaining: len(set.Questions) - idx,
		},
	}, nil
}

func (s *SessionService) completedResult(session *model.Session) *CurrentQuestionResult {
	return &CurrentQuestionResult{
		SessionID: session.SessionID,
		Completed: true,
		Message:   "All questions answered. Request the score report to see results.",
		Progress: SessionProgress{
			Answered: session.CurrentQuestionIndex,
		},
	}
}

// SubmitAnswer grades and records an answer for the current question and
// advances the cursor. Submissions for one session are serialized through
// a short-lived lock; the cursor advance itself is a compare-and-swap, so
// even without the lock only one submission per question position lands.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID uuid.UUID, req *model.SubmitAnswerRequest) (*SubmitAnswerResult, error) {
	return s.record(ctx, sessionID, req.QuestionID, req.SelectedAnswers, req.TimeSpent, false)
}

// SkipQuestion records the current question as skipped and advances the
// cursor. A skip is never correct but still occupies the question slot.
func (s *SessionService) SkipQuestion(ctx context.Context, sessionID uuid.UUID, questionID string) (*SubmitAnswerResult, error) {
	return s.record(ctx, sessionID, questionID, nil, nil, true)
}

func (s *SessionService) record(
	ctx context.Context,
	sessionID uuid.UUID,
	questionID string,
	selected []string,
	timeSpent *int,
	skipped bool,
) (*SubmitAnswerResult, error) {
	locked, err := s.coord.AcquireSubmitLock(ctx, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", err)
	}
	if !locked {
		return nil, ErrSubmitConflict
	}
	defer func() {
		if err := s.coord.ReleaseSubmitLock(ctx, sessionID.String()); err != nil {
			s.log.Warn().Err(err).
				Str("session_id", sessionID.String()).
				Msg("failed to release submit lock")
		}
	}()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted {
		if session.EndedReason == model.EndedReasonTimeout {
			return nil, ErrSessionExpired
		}
		return nil, ErrSessionCompleted
	}

	set, err := s.sets.GetByID(ctx, session.SetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSetNotFound
		}
		return nil, fmt.Errorf("load practice set: %w", err)
	}

	question, ok := set.QuestionByID(questionID)
	if !ok {
		return nil, ErrQuestionNotFound
	}

	correct := false
	if !skipped {
		correct = scoring.IsCorrect(selected, question.CorrectAnswers)
	}

	resp := &model.Response{
		UserID:          session.UserID,
		SessionID:       session.SessionID,
		SetID:           session.SetID,
		QuestionID:      question.QuestionID,
		SelectedAnswers: selected,
		CorrectAnswers:  question.CorrectAnswers,
		IsCorrect:       correct,
		IsScored:        question.IsScored,
		Domain:          question.Domain,
		Difficulty:      question.Difficulty,
		Skipped:         skipped,
		TimeSpent:       timeSpent,
		SubmittedAt:     time.Now().UTC(),
	}
	if err := s.responses.Insert(ctx, resp); err != nil {
		return nil, fmt.Errorf("record response: %w", err)
	}

	advanced, err := s.sessions.AdvanceIndex(ctx, sessionID, session.CurrentQuestionIndex)
	if err != nil {
		return nil, fmt.Errorf("advance session cursor: %w", err)
	}
	if !advanced {
		return nil, ErrSubmitConflict
	}

	nextIndex := session.CurrentQuestionIndex + 1
	examCompleted := nextIndex >= len(set.Questions)
	if examCompleted {
		if err := s.sessions.Complete(ctx, sessionID, model.EndedReasonCompleted); err != nil {
			return nil, fmt.Errorf("complete session: %w", err)
		}
	}

	message := "Answer recorded"
	if skipped {
		message = "Question skipped"
	}
	if examCompleted {
		message += ". Exam completed, request the score report to see results"
	}

	return &SubmitAnswerResult{
		Correct:               correct,
		IsScored:              question.IsScored,
		Skipped:               skipped,
		QuestionNumber:        session.CurrentQuestionIndex + 1,
		NextQuestionAvailable: !examCompleted,
		ExamCompleted:         examCompleted,
		Message:               message,
	}, nil
}

// Score builds the full exam report for a session. It can be requested at
// any point; unanswered scored questions simply count against the score.
func (s *SessionService) Score(ctx context.Context, sessionID uuid.UUID) (*scoring.ExamReport, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	set, err := s.sets.GetByID(ctx, session.SetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSetNotFound
		}
		return nil, fmt.Errorf("load practice set: %w", err)
	}

	responses, err := s.responses.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	report := scoring.BuildReport(s.bp, session, set, responses, time.Now().UTC())
	s.log.Info().
		Str("session_id", sessionID.String()).
		Int("scaled_score", report.ExamResults.ScaledScore).
		Bool("passed", report.ExamResults.Passed).
		Msg("session scored")
	return report, nil
}

func (s *SessionService) loadSession(ctx context.Context, sessionID uuid.UUID) (*model.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}
