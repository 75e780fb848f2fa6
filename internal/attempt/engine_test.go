package attempt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizdesk/internal/api"
)

type fakeBackend struct {
	latest    *api.LatestAttempt
	latestErr error

	created   *api.CreatedAttempt
	createErr error
	creates   int

	submitErr   map[api.ID]error
	submissions []api.AnswerSubmission

	finishErr error
	finishes  []api.FinishRequest
}

func (f *fakeBackend) LatestAttempt(context.Context, api.ID) (*api.LatestAttempt, error) {
	return f.latest, f.latestErr
}

func (f *fakeBackend) CreateAttempt(context.Context, api.ID) (*api.CreatedAttempt, error) {
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeBackend) SubmitAnswer(_ context.Context, sub api.AnswerSubmission) error {
	f.submissions = append(f.submissions, sub)
	return f.submitErr[sub.QuestionID]
}

func (f *fakeBackend) FinishAttempt(_ context.Context, _ api.ID, req api.FinishRequest) (*api.AttemptSummary, error) {
	f.finishes = append(f.finishes, req)
	if f.finishErr != nil {
		return nil, f.finishErr
	}
	return &api.AttemptSummary{Score: req.Score, CorrectAnswers: req.CorrectAnswers, WrongAnswers: req.WrongAnswers}, nil
}

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestEngine(b *fakeBackend) (*Engine, *MemorySlots) {
	slots := NewMemorySlots()
	e := NewEngine(b, NewSlotPersister(slots), WithClock(func() time.Time { return fixedNow }))
	return e, slots
}

func sampleQuestions() []api.Question {
	return []api.Question{
		{
			ID: "1", Type: api.QuestionClosed,
			Options: []api.Option{{ID: "10", IsCorrect: true}, {ID: "11"}},
		},
		{
			ID: "2", Type: api.QuestionClosed, MultipleChoice: true,
			Options: []api.Option{{ID: "20", IsCorrect: true}, {ID: "21", IsCorrect: true}, {ID: "22"}},
		},
		{ID: "3", Type: api.QuestionOpen, CorrectAnswerText: "photosynthesis"},
	}
}

func TestAttemptsRemaining(t *testing.T) {
	tests := []struct {
		name   string
		latest *api.LatestAttempt
		err    error
		want   int
	}{
		{"no finished attempt", nil, nil, 2},
		{"one used", &api.LatestAttempt{AttemptNumber: 1}, nil, 1},
		{"all used", &api.LatestAttempt{AttemptNumber: 2}, nil, 0},
		{"clamped at zero", &api.LatestAttempt{AttemptNumber: 5}, nil, 0},
		{"lookup error counts as none used", nil, errors.New("boom"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(&fakeBackend{latest: tt.latest, latestErr: tt.err})
			assert.Equal(t, tt.want, e.AttemptsRemaining(context.Background(), "7"))
		})
	}
}

func TestStart_RejectedWithoutCreateWhenNoAttemptsLeft(t *testing.T) {
	b := &fakeBackend{latest: &api.LatestAttempt{AttemptNumber: 2}}
	e, _ := newTestEngine(b)

	_, err := e.Start(context.Background(), "7", "1")
	require.ErrorIs(t, err, ErrNoAttemptsLeft)
	assert.Equal(t, 0, b.creates)
	assert.Equal(t, PhaseNone, e.Phase())
}

func TestStart_PersistsNewAttempt(t *testing.T) {
	b := &fakeBackend{created: &api.CreatedAttempt{AttemptID: "55", AttemptNumber: 1}}
	e, _ := newTestEngine(b)

	a, err := e.Start(context.Background(), "7", "3")
	require.NoError(t, err)
	assert.Equal(t, api.ID("55"), a.ID)
	assert.Equal(t, 1, a.Number)
	assert.Equal(t, fixedNow, a.StartedAt)
	assert.Empty(t, a.Answers)
	assert.Equal(t, PhaseInProgress, e.Phase())
}

func TestStart_CreateFailureKeepsPreviousAttempt(t *testing.T) {
	b := &fakeBackend{created: &api.CreatedAttempt{AttemptID: "1", AttemptNumber: 1}}
	e, _ := newTestEngine(b)
	_, err := e.Start(context.Background(), "7", "3")
	require.NoError(t, err)

	b.createErr = errors.New("unavailable")
	_, err = e.Start(context.Background(), "7", "3")
	require.Error(t, err)
	assert.Equal(t, api.ID("1"), e.Current().ID)
}

func TestStart_ReplacesUnfinishedAttempt(t *testing.T) {
	b := &fakeBackend{created: &api.CreatedAttempt{AttemptID: "1", AttemptNumber: 1}}
	e, slots := newTestEngine(b)
	ctx := context.Background()

	_, err := e.Start(ctx, "7", "3")
	require.NoError(t, err)
	require.NoError(t, e.RecordAnswer(ctx, "1", SingleChoice("10")))

	b.created = &api.CreatedAttempt{AttemptID: "2", AttemptNumber: 2}
	_, err = e.Start(ctx, "7", "3")
	require.NoError(t, err)

	restored, err := NewEngine(b, NewSlotPersister(slots)).Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.ID("2"), restored.ID)
	assert.Empty(t, restored.Answers)
}

func TestRecordAnswer_SurvivesReload(t *testing.T) {
	b := &fakeBackend{created: &api.CreatedAttempt{AttemptID: "9", AttemptNumber: 1}}
	e, slots := newTestEngine(b)
	ctx := context.Background()

	_, err := e.Start(ctx, "7", "3")
	require.NoError(t, err)
	require.NoError(t, e.RecordAnswer(ctx, "1", SingleChoice("10")))
	require.NoError(t, e.RecordAnswer(ctx, "2", MultiChoice("20", "21")))
	require.NoError(t, e.RecordAnswer(ctx, "3", Text("Photosynthesis ")))

	reloaded := NewEngine(b, NewSlotPersister(slots))
	a, err := reloaded.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, a)

	assert.Equal(t, e.Current(), a)
	assert.Equal(t, Answer{Values: []string{"20", "21"}, Multi: true}, a.Answers["2"])
	assert.Equal(t, "Photosynthesis ", a.Answers["3"].Value())
}

func TestRecordAnswer_LastWriteWins(t *testing.T) {
	b := &fakeBackend{created: &api.CreatedAttempt{AttemptID: "9", AttemptNumber: 1}}
	e, _ := newTestEngine(b)
	ctx := context.Background()
	_, err := e.Start(ctx, "7", "3")
	require.NoError(t, err)

	for _, ids := range [][]api.ID{{"20"}, {"20", "21"}, {"21"}} {
		require.NoError(t, e.RecordAnswer(ctx, "2", MultiChoice(ids...)))
	}
	assert.Equal(t, []string{"21"}, e.Current().Answers["2"].Values)
}

func TestRecordAnswer_NoCurrentAttemptIsNoop(t *testing.T) {
	e, slots := newTestEngine(&fakeBackend{})
	require.NoError(t, e.RecordAnswer(context.Background(), "1", Text("x")))

	data, err := slots.Get(context.Background(), CurrentSlot)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestGradeAndSubmit(t *testing.T) {
	b := &fakeBackend{created: &api.CreatedAttempt{AttemptID: "9", AttemptNumber: 2}}
	e, _ := newTestEngine(b)
	ctx := context.Background()
	_, err := e.Start(ctx, "7", "3")
	require.NoError(t, err)

	require.NoError(t, e.RecordAnswer(ctx, "1", SingleChoice("10")))
	require.NoError(t, e.RecordAnswer(ctx, "2", MultiChoice("20")))
	require.NoError(t, e.RecordAnswer(ctx, "3", Text("Photosynthesys")))

	res, err := e.GradeAndSubmit(ctx, sampleQuestions())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 1, res.Wrong)
	assert.Equal(t, 2, res.AttemptNumber)
	assert.Equal(t, []api.ID{"1", "3"}, res.CorrectIDs())

	require.Len(t, b.submissions, 3)
	for i, id := range []api.ID{"1", "2", "3"} {
		assert.Equal(t, id, b.submissions[i].QuestionID)
		assert.Equal(t, api.ID("9"), b.submissions[i].AttemptID)
	}
	assert.Equal(t, []api.FinishRequest{{Score: 2, CorrectAnswers: 2, WrongAnswers: 1}}, b.finishes)

	// Grading does not clear the attempt.
	assert.Equal(t, PhaseFinished, e.Phase())
	assert.NotNil(t, e.Current())
}

func TestGradeAndSubmit_SecondCallRejected(t *testing.T) {
	b := &fakeBackend{created: &api.CreatedAttempt{AttemptID: "9", AttemptNumber: 1}}
	e, slots := newTestEngine(b)
	ctx := context.Background()
	_, err := e.Start(ctx, "7", "3")
	require.NoError(t, err)

	_, err = e.GradeAndSubmit(ctx, sampleQuestions())
	require.NoError(t, err)

	_, err = e.GradeAndSubmit(ctx, sampleQuestions())
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Len(t, b.submissions, 3)
	assert.Len(t, b.finishes, 1)

	// The guard holds across a reload.
	reloaded := NewEngine(b, NewSlotPersister(slots))
	_, err = reloaded.Restore(ctx)
	require.NoError(t, err)
	_, err = reloaded.GradeAndSubmit(ctx, sampleQuestions())
	require.ErrorIs(t, err, ErrAlreadySubmitted)

	require.ErrorIs(t, reloaded.RecordAnswer(ctx, "1", Text("x")), ErrAttemptFinished)
}

func TestGradeAndSubmit_NoCurrentAttempt(t *testing.T) {
	e, _ := newTestEngine(&fakeBackend{})
	_, err := e.GradeAndSubmit(context.Background(), sampleQuestions())
	require.ErrorIs(t, err, ErrNoCurrentAttempt)
}

func TestGradeAndSubmit_PartialFailureStillFinishes(t *testing.T) {
	submitErr := errors.New("dropped")
	b := &fakeBackend{
		created:   &api.CreatedAttempt{AttemptID: "9", AttemptNumber: 1},
		submitErr: map[api.ID]error{"2": submitErr},
	}
	e, _ := newTestEngine(b)
	ctx := context.Background()
	_, err := e.Start(ctx, "7", "3")
	require.NoError(t, err)

	res, err := e.GradeAndSubmit(ctx, sampleQuestions())
	require.NotNil(t, res)

	var pe *PartialSubmitError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Failed, api.ID("2"))
	assert.ErrorIs(t, err, submitErr)
	assert.True(t, IsPartial(err))
	assert.Len(t, b.submissions, 3)
	assert.Len(t, b.finishes, 1)
	assert.Equal(t, PhaseFinished, e.Phase())
}

func TestGradeAndSubmit_FinishFailureKeepsInProgress(t *testing.T) {
	b := &fakeBackend{
		created:   &api.CreatedAttempt{AttemptID: "9", AttemptNumber: 1},
		finishErr: errors.New("gateway timeout"),
	}
	e, _ := newTestEngine(b)
	ctx := context.Background()
	_, err := e.Start(ctx, "7", "3")
	require.NoError(t, err)

	_, err = e.GradeAndSubmit(ctx, sampleQuestions())
	require.Error(t, err)
	assert.Equal(t, PhaseInProgress, e.Phase())
	assert.Len(t, b.submissions, 3)

	// Retrying finishes without posting answers again.
	b.finishErr = nil
	_, err = e.GradeAndSubmit(ctx, sampleQuestions())
	require.NoError(t, err)
	assert.Len(t, b.submissions, 3)
	assert.Len(t, b.finishes, 2)
	assert.Equal(t, PhaseFinished, e.Phase())
}

func TestClear(t *testing.T) {
	b := &fakeBackend{created: &api.CreatedAttempt{AttemptID: "9", AttemptNumber: 1}}
	e, slots := newTestEngine(b)
	ctx := context.Background()
	_, err := e.Start(ctx, "7", "3")
	require.NoError(t, err)

	require.NoError(t, e.Clear(ctx))
	assert.Nil(t, e.Current())
	assert.Equal(t, PhaseNone, e.Phase())

	a, err := NewEngine(b, NewSlotPersister(slots)).Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, a)
}
