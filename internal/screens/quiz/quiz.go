// Package quiz is the screen a learner takes a test on.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"slices"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/attempt"
	"github.com/abhisek/quizdesk/internal/logging"
	"github.com/abhisek/quizdesk/internal/router"
	"github.com/abhisek/quizdesk/internal/screen"
	"github.com/abhisek/quizdesk/internal/store"
	"github.com/abhisek/quizdesk/internal/ui/components"
	"github.com/abhisek/quizdesk/internal/ui/layout"
)

// QuestionSource fetches the questions of a test.
type QuestionSource interface {
	TestQuestions(ctx context.Context, testID api.ID) ([]api.Question, error)
}

// History records finished attempts locally.
type History interface {
	Append(ctx context.Context, rec store.ResultRecord) error
}

// Deps are the services the screen works with. History may be nil.
type Deps struct {
	Questions QuestionSource
	Engine    *attempt.Engine
	History   History
	Log       logrus.FieldLogger
}

type stage int

const (
	stageLoading stage = iota
	stageFailed
	stageConfirm
	stageStarting
	stageAnswering
	stageReview
	stageCancel
	stageSubmitting
	stageResults
)

// QuizScreen walks through loading a test, starting or resuming an attempt,
// answering, submitting and showing the result.
type QuizScreen struct {
	deps     Deps
	testID   api.ID
	courseID api.ID
	name     string

	stage     stage
	questions []api.Question
	remaining int
	replaces  *attempt.Attempt
	resumed   bool

	index   int
	options components.OptionList
	input   components.TextInput
	buttons components.ButtonRow

	result  *attempt.Result
	answers map[api.ID]attempt.Answer
	errMsg  string
	warning string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// New creates a quiz screen for one test. name is shown in the header and
// may be empty.
func New(deps Deps, testID, courseID api.ID, name string) *QuizScreen {
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	return &QuizScreen{
		deps:     deps,
		testID:   testID,
		courseID: courseID,
		name:     name,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.load()
}

func (s *QuizScreen) Title() string {
	if s.name != "" {
		return s.name
	}
	return "Test " + s.testID.String()
}

// HandlesEscape keeps Esc inside the screen once answers are at stake.
func (s *QuizScreen) HandlesEscape() bool {
	switch s.stage {
	case stageReview, stageCancel, stageSubmitting, stageResults:
		return true
	}
	return false
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.stage {
	case stageConfirm, stageReview, stageCancel:
		return []layout.KeyHint{
			{Key: "←/→", Description: "Choose"},
			{Key: "Enter", Description: "Confirm"},
		}
	case stageAnswering:
		hints := []layout.KeyHint{
			{Key: "Tab", Description: "Next"},
			{Key: "Shift+Tab", Description: "Previous"},
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Ctrl+X", Description: "Discard"},
			{Key: "Esc", Description: "Leave"},
		}
		if s.current().Type != api.QuestionOpen {
			hints = append([]layout.KeyHint{{Key: "Space", Description: "Select"}}, hints...)
		}
		return hints
	case stageFailed, stageResults:
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	return nil
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return s.handleLoaded(msg)
	case startedMsg:
		return s.handleStarted(msg)
	case submittedMsg:
		return s.handleSubmitted(msg)
	case clearedMsg:
		if msg.Err != nil {
			s.deps.Log.WithError(msg.Err).Warn("clear attempt")
		}
		return s, router.Pop()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Non-key messages such as cursor blinks go to the text input.
	if s.stage == stageAnswering && s.current().Type == api.QuestionOpen {
		var cmd tea.Cmd
		s.input, cmd, _ = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) load() tea.Cmd {
	questions, engine, testID := s.deps.Questions, s.deps.Engine, s.testID
	return func() tea.Msg {
		ctx := context.Background()
		qs, err := questions.TestQuestions(ctx, testID)
		if err != nil {
			return loadedMsg{Err: err}
		}
		return loadedMsg{
			Questions: qs,
			Remaining: engine.AttemptsRemaining(ctx, testID),
		}
	}
}

func (s *QuizScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.deps.Log.WithError(msg.Err).WithField("test_id", s.testID).Error("load questions")
		s.stage = stageFailed
		s.errMsg = "Could not load the test: " + msg.Err.Error()
		return s, nil
	}
	if len(msg.Questions) == 0 {
		s.stage = stageFailed
		s.errMsg = "This test has no questions yet."
		return s, nil
	}
	s.questions = msg.Questions
	s.remaining = msg.Remaining

	cur := s.deps.Engine.Current()
	if cur != nil && cur.Phase() == attempt.PhaseInProgress {
		if cur.TestID == s.testID {
			s.resumed = true
			return s, s.enterAnswering(cur)
		}
		s.replaces = cur
	}
	s.showConfirm()
	return s, nil
}

func (s *QuizScreen) showConfirm() {
	s.stage = stageConfirm
	back := components.Button{Label: "Back", OnPress: router.Pop}
	if s.remaining <= 0 {
		s.buttons = components.NewButtonRow(back)
		return
	}
	s.buttons = components.NewButtonRow(
		components.Button{Label: "Start attempt", OnPress: s.start},
		back,
	)
}

func (s *QuizScreen) start() tea.Cmd {
	s.stage = stageStarting
	s.errMsg = ""
	engine, testID, courseID := s.deps.Engine, s.testID, s.courseID
	return func() tea.Msg {
		a, err := engine.Start(context.Background(), testID, courseID)
		return startedMsg{Attempt: a, Err: err}
	}
}

func (s *QuizScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Attempt == nil {
		if errors.Is(msg.Err, attempt.ErrNoAttemptsLeft) {
			s.remaining = 0
			s.errMsg = "You have used all your attempts on this test."
		} else {
			s.errMsg = "Could not start the attempt: " + msg.Err.Error()
		}
		s.showConfirm()
		return s, nil
	}
	if msg.Err != nil {
		s.deps.Log.WithError(msg.Err).Warn("persist new attempt")
		s.warning = "Progress may not be saved locally: " + msg.Err.Error()
	}
	s.replaces = nil
	return s, s.enterAnswering(msg.Attempt)
}

func (s *QuizScreen) enterAnswering(a *attempt.Attempt) tea.Cmd {
	s.stage = stageAnswering
	s.errMsg = ""
	s.index = 0
	if a != nil {
		// Resume at the first unanswered question.
		for i, q := range s.questions {
			if _, ok := a.Answers[q.ID]; !ok {
				s.index = i
				break
			}
		}
	}
	return s.loadQuestion(a)
}

func (s *QuizScreen) current() api.Question {
	if s.index < 0 || s.index >= len(s.questions) {
		return api.Question{}
	}
	return s.questions[s.index]
}

// loadQuestion prepares the input widget for the current question,
// restoring any saved answer.
func (s *QuizScreen) loadQuestion(a *attempt.Attempt) tea.Cmd {
	if a == nil {
		a = s.deps.Engine.Current()
	}
	q := s.current()
	var saved attempt.Answer
	if a != nil {
		saved = a.Answers[q.ID]
	}

	if q.Type == api.QuestionOpen {
		s.input = components.NewTextInput("Your answer", "Type your answer...", 500)
		s.input.SetValue(saved.Value())
		return s.input.Init()
	}

	labels := make([]string, len(q.Options))
	var checked []int
	for i, o := range q.Options {
		labels[i] = o.Text
		if saved.Has(o.ID.String()) {
			checked = append(checked, i)
		}
	}
	s.options = components.NewOptionList(labels, q.MultipleChoice)
	s.options.SetChecked(checked...)
	if len(checked) > 0 {
		s.options.Cursor = checked[0]
	}
	return nil
}

func (s *QuizScreen) move(delta int) tea.Cmd {
	next := s.index + delta
	if next < 0 || next >= len(s.questions) {
		return nil
	}
	s.index = next
	return s.loadQuestion(nil)
}

func (s *QuizScreen) record() {
	q := s.current()
	var ans attempt.Answer
	if q.Type == api.QuestionOpen {
		ans = attempt.Text(s.input.Value())
	} else {
		var ids []api.ID
		for _, i := range s.options.Checked() {
			ids = append(ids, q.Options[i].ID)
		}
		switch {
		case q.MultipleChoice:
			ans = attempt.MultiChoice(ids...)
		case len(ids) == 1:
			ans = attempt.SingleChoice(ids[0])
		default:
			ans = attempt.Text("")
		}
	}
	if err := s.deps.Engine.RecordAnswer(context.Background(), q.ID, ans); err != nil {
		s.deps.Log.WithError(err).WithField("question_id", q.ID).Warn("record answer")
		s.warning = "Answer not saved locally: " + err.Error()
		return
	}
	s.warning = ""
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.stage {
	case stageFailed:
		return s, router.Pop()

	case stageResults:
		return s, s.discard()

	case stageConfirm, stageReview, stageCancel:
		if key == "esc" {
			if s.stage == stageConfirm {
				return s, router.Pop()
			}
			s.stage = stageAnswering
			return s, s.loadQuestion(nil)
		}
		var cmd tea.Cmd
		s.buttons, cmd = s.buttons.Update(msg)
		return s, cmd

	case stageAnswering:
		return s.handleAnsweringKey(msg, key)
	}
	return s, nil
}

func (s *QuizScreen) handleAnsweringKey(msg tea.KeyMsg, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "tab", "pgdown":
		return s, s.move(1)
	case "shift+tab", "pgup":
		return s, s.move(-1)
	case "enter":
		if s.index == len(s.questions)-1 {
			s.showReview()
			return s, nil
		}
		return s, s.move(1)
	case "ctrl+s":
		s.showReview()
		return s, nil
	case "ctrl+x":
		s.showCancel()
		return s, nil
	}

	if s.current().Type == api.QuestionOpen {
		var (
			cmd     tea.Cmd
			changed bool
		)
		s.input, cmd, changed = s.input.Update(msg)
		if changed {
			s.record()
		}
		return s, cmd
	}

	var changed bool
	s.options, changed = s.options.Update(msg)
	if changed {
		s.record()
	}
	return s, nil
}

func (s *QuizScreen) showReview() {
	s.stage = stageReview
	s.buttons = components.NewButtonRow(
		components.Button{Label: "Submit", OnPress: s.submit},
		components.Button{Label: "Keep answering", OnPress: s.resumeAnswering},
	)
}

func (s *QuizScreen) showCancel() {
	s.stage = stageCancel
	s.buttons = components.NewButtonRow(
		components.Button{Label: "Keep answering", OnPress: s.resumeAnswering},
		components.Button{Label: "Discard attempt", OnPress: s.discard},
	)
}

func (s *QuizScreen) resumeAnswering() tea.Cmd {
	s.stage = stageAnswering
	return s.loadQuestion(nil)
}

func (s *QuizScreen) discard() tea.Cmd {
	engine := s.deps.Engine
	return func() tea.Msg {
		return clearedMsg{Err: engine.Clear(context.Background())}
	}
}

func (s *QuizScreen) submit() tea.Cmd {
	s.stage = stageSubmitting
	s.errMsg = ""
	engine, history, log := s.deps.Engine, s.deps.History, s.deps.Log
	questions := slices.Clone(s.questions)
	cur := engine.Current()
	return func() tea.Msg {
		ctx := context.Background()
		res, err := engine.GradeAndSubmit(ctx, questions)
		if res != nil && history != nil && cur != nil {
			rec := store.ResultRecord{
				AttemptID:     cur.ID.String(),
				TestID:        cur.TestID.String(),
				CourseID:      cur.CourseID.String(),
				AttemptNumber: res.AttemptNumber,
				Score:         res.Score,
				Correct:       res.Correct,
				Wrong:         res.Wrong,
			}
			if herr := history.Append(ctx, rec); herr != nil {
				log.WithError(herr).Warn("record result history")
			}
		}
		return submittedMsg{Result: res, Err: err}
	}
}

func (s *QuizScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	if msg.Result == nil {
		s.deps.Log.WithError(msg.Err).Error("submit attempt")
		s.errMsg = "Submission failed: " + msg.Err.Error()
		s.showReview()
		return s, nil
	}

	s.result = msg.Result
	if cur := s.deps.Engine.Current(); cur != nil {
		s.answers = cur.Answers
	}
	s.stage = stageResults
	s.warning = ""
	var partial *attempt.PartialSubmitError
	if errors.As(msg.Err, &partial) {
		s.warning = fmt.Sprintf("%d answer(s) could not be sent to the server; your score is saved.", len(partial.Failed))
	}
	return s, nil
}
