package finder

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/catalog"
)

type fakeLister struct {
	courses  []api.Course
	students map[api.ID][]api.Student
	err      error
}

func (f *fakeLister) Courses(context.Context) ([]api.Course, error) { return f.courses, f.err }
func (f *fakeLister) CourseTests(context.Context, api.ID) ([]api.TestInfo, error) {
	return nil, f.err
}
func (f *fakeLister) Users(context.Context) ([]api.User, error)   { return nil, f.err }
func (f *fakeLister) Groups(context.Context) ([]api.Group, error) { return nil, f.err }
func (f *fakeLister) TeacherCourses(context.Context) ([]api.TeacherCourse, error) {
	return nil, f.err
}
func (f *fakeLister) TeacherTests(context.Context) ([]api.TeacherTest, error) { return nil, f.err }
func (f *fakeLister) TeacherQuestions(context.Context, api.ID) ([]api.Question, error) {
	return nil, f.err
}
func (f *fakeLister) TeacherGroups(context.Context) ([]api.Group, error) { return nil, f.err }
func (f *fakeLister) TeacherGroup(_ context.Context, id api.ID) (*api.GroupDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.GroupDetail{ID: id, Students: f.students[id]}, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func courses() []api.Course {
	return []api.Course{
		{ID: "1", Title: "Algebra", Description: "Equations and inequalities"},
		{ID: "2", Title: "Linear Algebra", Description: "Vectors"},
		{ID: "3", Title: "Geometry", Description: "Shapes"},
		{ID: "4", Title: "History", Description: "Ancient algebra texts"},
	}
}

func loaded(t *testing.T, opts Options) *FinderScreen {
	t.Helper()
	if opts.Kind == "" {
		opts.Kind = catalog.Courses
	}
	if opts.Lister == nil {
		opts.Lister = &fakeLister{courses: courses()}
	}
	f := New(opts)
	f.Update(f.load()())
	require.False(t, f.loading)
	return f
}

// typeQuery types text and fires the debounce for the last keystroke.
func typeQuery(f *FinderScreen, text string) {
	for _, r := range text {
		f.Update(keyPress(r))
	}
	f.Update(debounceMsg{Gen: f.pending})
}

func titles(rows []catalog.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Fields[0]
	}
	return out
}

func TestLoadShowsAllRows(t *testing.T) {
	f := loaded(t, Options{})
	assert.Len(t, f.Rows(), 4)
	assert.Contains(t, f.View(100, 30), "4 courses")
	assert.False(t, f.HandlesEscape())
}

func TestLoadErrorForbidden(t *testing.T) {
	f := loaded(t, Options{
		Kind:   catalog.Users,
		Lister: &fakeLister{err: &api.StatusError{Method: "GET", Path: "/api/admin/users", StatusCode: 403}},
	})
	assert.Contains(t, f.View(100, 30), "You do not have access to users.")
}

func TestLoadErrorUsesRecordNoun(t *testing.T) {
	f := loaded(t, Options{
		Kind:   catalog.MyGroups,
		Lister: &fakeLister{err: &api.StatusError{Method: "GET", Path: "/api/teacher/groups", StatusCode: 403}},
	})
	assert.Equal(t, "My groups", f.Title())
	assert.Contains(t, f.View(100, 30), "You do not have access to groups.")
}

func TestGroupStudentsSearch(t *testing.T) {
	f := loaded(t, Options{
		Kind:   catalog.Students,
		Parent: "5",
		Lister: &fakeLister{students: map[api.ID][]api.Student{"5": {
			{ID: "9", FullName: "Ada Lovelace", Email: "ada@example.com"},
			{ID: "10", FullName: "Alan Turing", Email: "alan@example.com"},
			{ID: "11", FullName: "Grace Hopper", Email: "grace@example.com"},
		}}},
	})
	require.Len(t, f.Rows(), 3)
	assert.Contains(t, f.View(100, 30), "3 students")

	typeQuery(f, "turing")
	f.Update(specialKey(tea.KeyEnter))
	require.Len(t, f.Rows(), 1)
	assert.Equal(t, api.ID("10"), f.Rows()[0].ID)
}

func TestTypingWaitsForDebounce(t *testing.T) {
	f := loaded(t, Options{})

	_, cmd := f.Update(keyPress('a'))
	assert.NotNil(t, cmd, "a debounce tick is scheduled")
	assert.False(t, f.sugg.Open())

	f.Update(debounceMsg{Gen: f.pending - 1})
	assert.False(t, f.sugg.Open(), "stale ticks are ignored")

	typeQuery(f, "lg")
	require.True(t, f.sugg.Open())
	assert.Equal(t, "alg", f.sugg.Query())

	sugs := f.sugg.Suggestions()
	require.Len(t, sugs, 3)
	assert.Equal(t, "Algebra", sugs[0].Item.Fields[0])
	assert.Contains(t, f.View(100, 30), "Linear Algebra")
}

func TestEnterWithoutHighlightFiltersByQuery(t *testing.T) {
	f := loaded(t, Options{})
	typeQuery(f, "alg")

	f.Update(specialKey(tea.KeyEnter))
	assert.False(t, f.sugg.Open())
	assert.True(t, f.sugg.Filtered())
	assert.Equal(t, []string{"Algebra", "Linear Algebra", "History"}, titles(f.Rows()))
	assert.Contains(t, f.View(100, 30), `3 of 4 courses matching "alg"`)
}

func TestEnterAppliesPendingTyping(t *testing.T) {
	f := loaded(t, Options{})
	f.Update(keyPress('g'))
	f.Update(keyPress('e'))
	f.Update(keyPress('o'))

	f.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, []string{"Geometry"}, titles(f.Rows()))
}

func TestSelectSuggestion(t *testing.T) {
	f := loaded(t, Options{})
	typeQuery(f, "alg")

	f.Update(specialKey(tea.KeyDown))
	f.Update(specialKey(tea.KeyDown))
	f.Update(specialKey(tea.KeyEnter))

	assert.Equal(t, "Linear Algebra", f.input.Value())
	assert.Equal(t, []string{"Algebra", "Linear Algebra", "History"}, titles(f.Rows()))
}

func TestEscapeClears(t *testing.T) {
	f := loaded(t, Options{})
	typeQuery(f, "geo")
	f.Update(specialKey(tea.KeyEnter))
	require.True(t, f.HandlesEscape())

	f.Update(specialKey(tea.KeyEscape))
	assert.Equal(t, "", f.input.Value())
	assert.False(t, f.sugg.Filtered())
	assert.Len(t, f.Rows(), 4)
	assert.False(t, f.HandlesEscape())
}

func TestBlurDismissesKeepingFilter(t *testing.T) {
	f := loaded(t, Options{})
	typeQuery(f, "geo")
	f.Update(specialKey(tea.KeyEnter))
	typeQuery(f, "x")
	require.True(t, f.sugg.Open())

	f.Update(tea.BlurMsg{})
	assert.False(t, f.sugg.Open())
	assert.Equal(t, []string{"Geometry"}, titles(f.Rows()))
}

func TestTableOpensRow(t *testing.T) {
	var opened catalog.Row
	f := loaded(t, Options{Open: func(r catalog.Row) tea.Cmd {
		opened = r
		return nil
	}})

	f.Update(specialKey(tea.KeyTab))
	require.Equal(t, focusTable, f.focus)
	assert.True(t, f.HandlesEscape())

	f.Update(specialKey(tea.KeyDown))
	f.Update(specialKey(tea.KeyDown))
	f.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, api.ID("3"), opened.ID)

	f.Update(specialKey(tea.KeyEscape))
	assert.Equal(t, focusSearch, f.focus)
}

func TestColumnWidthsFit(t *testing.T) {
	rows := catalog.CourseRows([]api.Course{{ID: "1", Title: "A very long course title indeed", Description: "An even longer description of the course"}})
	widths := columnWidths(catalog.Courses.Headers(), rows, 40)
	assert.LessOrEqual(t, sum(widths)+2*(len(widths)-1), 40)
}
