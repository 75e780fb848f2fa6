package attempt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizdesk/internal/api"
)

// Backend is the part of the platform API the engine drives.
type Backend interface {
	LatestAttempt(ctx context.Context, testID api.ID) (*api.LatestAttempt, error)
	CreateAttempt(ctx context.Context, testID api.ID) (*api.CreatedAttempt, error)
	SubmitAnswer(ctx context.Context, sub api.AnswerSubmission) error
	FinishAttempt(ctx context.Context, attemptID api.ID, req api.FinishRequest) (*api.AttemptSummary, error)
}

// Engine owns the current attempt. Its methods are serialized, so it may be
// shared between the UI loop and commands running in the background.
type Engine struct {
	mu        sync.Mutex
	backend   Backend
	store     Persister
	threshold int
	log       logrus.FieldLogger
	now       func() time.Time

	cur *Attempt
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithThreshold sets the similarity threshold for open answers.
func WithThreshold(pct int) EngineOption {
	return func(e *Engine) { e.threshold = pct }
}

// WithLogger sets the engine's logger.
func WithLogger(l logrus.FieldLogger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine with no current attempt. Call Restore to pick
// up a persisted one.
func NewEngine(backend Backend, store Persister, opts ...EngineOption) *Engine {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	e := &Engine{
		backend:   backend,
		store:     store,
		threshold: DefaultSimilarityThreshold,
		log:       quiet,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore loads the persisted attempt, if any, and makes it current.
func (e *Engine) Restore(ctx context.Context) (*Attempt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	e.cur = a
	if a != nil {
		e.log.WithFields(logrus.Fields{
			"attempt_id": a.ID,
			"test_id":    a.TestID,
			"answered":   len(a.Answers),
		}).Info("restored attempt")
	}
	return a.Clone(), nil
}

// Current returns a copy of the current attempt, or nil.
func (e *Engine) Current() *Attempt {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur.Clone()
}

// Phase reports the lifecycle phase of the current attempt.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur.Phase()
}

// AttemptsRemaining returns how many attempts the learner has left on a
// test. Lookup failures are logged and treated as no attempts used.
func (e *Engine) AttemptsRemaining(ctx context.Context, testID api.ID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining(ctx, testID)
}

func (e *Engine) remaining(ctx context.Context, testID api.ID) int {
	latest, err := e.backend.LatestAttempt(ctx, testID)
	if err != nil {
		e.log.WithError(err).WithField("test_id", testID).Warn("latest attempt lookup failed")
		return MaxAttempts
	}
	if latest == nil {
		return MaxAttempts
	}
	return max(MaxAttempts-latest.AttemptNumber, 0)
}

// Start opens a new attempt on the backend and makes it current, replacing
// any previous attempt. It fails with ErrNoAttemptsLeft before contacting
// the create endpoint when the limit is used up. If the new attempt cannot
// be persisted it is still current and returned along with the error.
func (e *Engine) Start(ctx context.Context, testID, courseID api.ID) (*Attempt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.remaining(ctx, testID) <= 0 {
		return nil, ErrNoAttemptsLeft
	}

	created, err := e.backend.CreateAttempt(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	a := &Attempt{
		ID:        created.AttemptID,
		Number:    created.AttemptNumber,
		StartedAt: e.now().UTC(),
		Answers:   map[api.ID]Answer{},
		TestID:    testID,
		CourseID:  courseID,
	}
	e.cur = a
	e.log.WithFields(logrus.Fields{
		"attempt_id":     a.ID,
		"attempt_number": a.Number,
		"test_id":        testID,
	}).Info("attempt started")

	if err := e.store.Save(ctx, a); err != nil {
		return a.Clone(), err
	}
	return a.Clone(), nil
}

// RecordAnswer sets the answer to one question and persists the attempt.
// It is a no-op without a current attempt.
func (e *Engine) RecordAnswer(ctx context.Context, questionID api.ID, ans Answer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cur == nil {
		return nil
	}
	if e.cur.FinishedAt != nil {
		return ErrAttemptFinished
	}
	if e.cur.Answers == nil {
		e.cur.Answers = map[api.ID]Answer{}
	}
	e.cur.Answers[questionID] = ans
	return e.store.Save(ctx, e.cur)
}

// GradeAndSubmit grades the current attempt against questions, posts each
// result in order, then finishes the attempt on the backend.
//
// A failed per-question post does not stop the loop. The attempt is still
// finished and the result comes back together with a *PartialSubmitError.
// If finishing fails the attempt stays in progress and questions already
// posted are skipped on the next call. The attempt is not cleared.
func (e *Engine) GradeAndSubmit(ctx context.Context, questions []api.Question) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a := e.cur
	if a == nil {
		return nil, ErrNoCurrentAttempt
	}
	if a.FinishedAt != nil {
		return nil, ErrAlreadySubmitted
	}

	perQuestion, correct, wrong := Tally(questions, a.Answers, e.threshold)
	log := e.log.WithField("attempt_id", a.ID)

	done := a.submittedSet()
	failed := make(map[api.ID]error)
	for _, q := range questions {
		if done[q.ID] {
			continue
		}
		if err := ctx.Err(); err != nil {
			e.persist(ctx, a)
			return nil, fmt.Errorf("submit answers: %w", err)
		}
		err := e.backend.SubmitAnswer(ctx, api.AnswerSubmission{
			AttemptID:  a.ID,
			QuestionID: q.ID,
			IsCorrect:  perQuestion[q.ID],
		})
		if err != nil {
			log.WithError(err).WithField("question_id", q.ID).Warn("answer submission failed")
			failed[q.ID] = err
			continue
		}
		a.Submitted = append(a.Submitted, q.ID)
		done[q.ID] = true
	}

	summary, err := e.backend.FinishAttempt(ctx, a.ID, api.FinishRequest{
		Score:          correct,
		CorrectAnswers: correct,
		WrongAnswers:   wrong,
	})
	if err != nil {
		e.persist(ctx, a)
		return nil, fmt.Errorf("finish attempt: %w", err)
	}

	finished := e.now().UTC()
	a.FinishedAt = &finished
	e.persist(ctx, a)

	log.WithFields(logrus.Fields{
		"score":  correct,
		"wrong":  wrong,
		"failed": len(failed),
	}).Info("attempt finished")

	res := &Result{
		Score:         correct,
		Correct:       correct,
		Wrong:         wrong,
		AttemptNumber: a.Number,
		PerQuestion:   perQuestion,
		Summary:       summary,
	}
	if len(failed) > 0 {
		return res, &PartialSubmitError{Failed: failed}
	}
	return res, nil
}

// Clear drops the current attempt from memory and storage.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cur = nil
	return e.store.Clear(ctx)
}

// persist saves a, logging instead of failing. Used on paths that already
// have a more important error or result to report.
func (e *Engine) persist(ctx context.Context, a *Attempt) {
	// A canceled ctx must not lose the local record.
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	if err := e.store.Save(ctx, a); err != nil {
		e.log.WithError(err).Error("persist attempt")
	}
}

// IsPartial reports whether err is a *PartialSubmitError.
func IsPartial(err error) bool {
	var pe *PartialSubmitError
	return errors.As(err, &pe)
}
