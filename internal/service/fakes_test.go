package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/certprep/dva-practice-backend/internal/cache"
	"github.com/certprep/dva-practice-backend/internal/model"
)

type fakeSetStore struct {
	sets      map[uuid.UUID]*model.PracticeSet
	count     int64
	listErr   error
	callCount int
}

func newFakeSetStore(sets ...*model.PracticeSet) *fakeSetStore {
	store := &fakeSetStore{sets: make(map[uuid.UUID]*model.PracticeSet)}
	for _, s := range sets {
		store.sets[s.SetID] = s
	}
	return store
}

func (f *fakeSetStore) GetByID(_ context.Context, setID uuid.UUID) (*model.PracticeSet, error) {
	f.callCount++
	if s, ok := f.sets[setID]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSetStore) GetBySetNumber(_ context.Context, setNumber int) (*model.PracticeSet, error) {
	f.callCount++
	for _, s := range f.sets {
		if s.SetNumber == setNumber {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSetStore) GetByQuestionID(_ context.Context, questionID string) (*model.PracticeSet, error) {
	f.callCount++
	for _, s := range f.sets {
		if _, ok := s.QuestionByID(questionID); ok {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSetStore) List(_ context.Context) ([]model.PracticeSetSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.PracticeSetSummary
	for _, s := range f.sets {
		out = append(out, model.PracticeSetSummary{
			SetID:          s.SetID,
			SetNumber:      s.SetNumber,
			TotalQuestions: len(s.Questions),
			CreatedAt:      s.CreatedAt,
		})
	}
	return out, nil
}

func (f *fakeSetStore) Count(_ context.Context) (int64, error) {
	if f.count > 0 {
		return f.count, nil
	}
	return int64(len(f.sets)), nil
}

type fakeSessionStore struct {
	sessions map[uuid.UUID]*model.Session

	// createCollision simulates losing a concurrent start race: Create
	// fails with pgx.ErrNoRows and winner becomes the active session.
	createCollision bool
	winner          *model.Session

	advanceRefused bool
}

func newFakeSessionStore(sessions ...*model.Session) *fakeSessionStore {
	store := &fakeSessionStore{sessions: make(map[uuid.UUID]*model.Session)}
	for _, s := range sessions {
		store.sessions[s.SessionID] = s
	}
	return store
}

func (f *fakeSessionStore) GetByID(_ context.Context, sessionID uuid.UUID) (*model.Session, error) {
	if s, ok := f.sessions[sessionID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSessionStore) GetActiveByUserAndSet(_ context.Context, userID string, setID uuid.UUID) (*model.Session, error) {
	for _, s := range f.sessions {
		if s.UserID == userID && s.SetID == setID && !s.IsCompleted {
			copied := *s
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSessionStore) Create(_ context.Context, s *model.Session) error {
	if f.createCollision {
		f.sessions[f.winner.SessionID] = f.winner
		return pgx.ErrNoRows
	}
	copied := *s
	f.sessions[s.SessionID] = &copied
	return nil
}

func (f *fakeSessionStore) AdvanceIndex(_ context.Context, sessionID uuid.UUID, fromIndex int) (bool, error) {
	if f.advanceRefused {
		return false, nil
	}
	s, ok := f.sessions[sessionID]
	if !ok || s.IsCompleted || s.CurrentQuestionIndex != fromIndex {
		return false, nil
	}
	s.CurrentQuestionIndex++
	return true, nil
}

func (f *fakeSessionStore) Complete(_ context.Context, sessionID uuid.UUID, reason model.EndedReason) error {
	s, ok := f.sessions[sessionID]
	if !ok || s.IsCompleted {
		return nil
	}
	s.IsCompleted = true
	s.EndedReason = reason
	return nil
}

type fakeResponseStore struct {
	responses []model.Response
	insertErr error
}

func (f *fakeResponseStore) Insert(_ context.Context, resp *model.Response) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.responses = append(f.responses, *resp)
	return nil
}

func (f *fakeResponseStore) ListBySession(_ context.Context, sessionID uuid.UUID) ([]model.Response, error) {
	var out []model.Response
	for _, r := range f.responses {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResponseStore) ListByUserAndSet(_ context.Context, userID string, setID uuid.UUID) ([]model.Response, error) {
	var out []model.Response
	for _, r := range f.responses {
		if r.UserID == userID && r.SetID == setID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeCoordinator struct {
	startTimes  map[string]time.Time
	lockRefused bool
	acquired    int
	released    int
}

func newFakeCoordinator() *fakeCoordinator {
	return &fakeCoordinator{startTimes: make(map[string]time.Time)}
}

func (f *fakeCoordinator) SetStartTime(_ context.Context, sessionID string, startedAt time.Time) error {
	f.startTimes[sessionID] = startedAt
	return nil
}

func (f *fakeCoordinator) GetStartTime(_ context.Context, sessionID string) (time.Time, bool, error) {
	t, ok := f.startTimes[sessionID]
	return t, ok, nil
}

func (f *fakeCoordinator) AcquireSubmitLock(_ context.Context, _ string) (bool, error) {
	if f.lockRefused {
		return false, nil
	}
	f.acquired++
	return true, nil
}

func (f *fakeCoordinator) ReleaseSubmitLock(_ context.Context, _ string) error {
	f.released++
	return nil
}

type fakeQueue struct {
	enqueued [][]int
}

func (f *fakeQueue) Enqueue(_ context.Context, setNumbers []int) error {
	f.enqueued = append(f.enqueued, setNumbers)
	return nil
}

type fakeStatus struct {
	status     cache.GenerationStatus
	resetTotal int
}

func (f *fakeStatus) Reset(_ context.Context, total int) error {
	f.resetTotal = total
	f.status = cache.GenerationStatus{State: cache.GenerationStateRunning, Total: total}
	return nil
}

func (f *fakeStatus) Get(_ context.Context) (cache.GenerationStatus, error) {
	return f.status, nil
}

type fakeExplainer struct {
	explanation string
	err         error
	lastAnswers []string
}

func (f *fakeExplainer) ExplainAnswer(_ context.Context, _ model.Question, userAnswers []string) (string, error) {
	f.lastAnswers = userAnswers
	if f.err != nil {
		return "", f.err
	}
	return f.explanation, nil
}

// testSet builds a practice set with n sequential questions, all scored,
// each with options A-D and correct answer "A".
func testSet(setNumber, n int) *model.PracticeSet {
	questions := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, model.Question{
			QuestionID:     fmt.Sprintf("q-%d", i+1),
			Domain:         "development",
			TaskNumber:     1,
			QuestionType:   model.QuestionTypeMultipleChoice,
			Question:       fmt.Sprintf("Question %d", i+1),
			Options:        []string{"A", "B", "C", "D"},
			CorrectAnswers: []string{"A"},
			Explanation:    "Because A.",
			Difficulty:     model.DifficultyMedium,
			AWSServices:    []string{"Lambda"},
			IsScored:       true,
		})
	}
	return &model.PracticeSet{
		SetID:              uuid.New(),
		SetNumber:          setNumber,
		Topic:              "AWS Certified Developer Associate (DVA-C02)",
		Questions:          questions,
		CreatedAt:          time.Now().UTC(),
		TotalQuestions:     n,
		ScoredQuestions:    n,
		DomainDistribution: map[string]int{"development": n},
	}
}
