package home

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/attempt"
	"github.com/abhisek/quizdesk/internal/auth"
	"github.com/abhisek/quizdesk/internal/catalog"
	"github.com/abhisek/quizdesk/internal/router"
	"github.com/abhisek/quizdesk/internal/screen"
	"github.com/abhisek/quizdesk/internal/screens/finder"
	"github.com/abhisek/quizdesk/internal/screens/history"
	"github.com/abhisek/quizdesk/internal/screens/notice"
	"github.com/abhisek/quizdesk/internal/screens/quiz"
	"github.com/abhisek/quizdesk/internal/ui/components"
)

// Platform is the part of the API client the screens use.
type Platform interface {
	catalog.Lister
	quiz.QuestionSource
}

// Results is the local result history.
type Results interface {
	history.Source
	quiz.History
}

// Deps are the services reachable from the home screen. Results may be nil.
type Deps struct {
	Platform Platform
	Engine   *attempt.Engine
	Results  Results
	Identity auth.Identity
	Debounce time.Duration
	Log      logrus.FieldLogger
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps    Deps
	menu    components.Menu
	current *attempt.Attempt
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.refresh()
	return h
}

// refresh rebuilds the menu from the current attempt and identity.
func (h *HomeScreen) refresh() {
	h.current = h.deps.Engine.Current()
	selected := h.menu.Selected

	resume := components.MenuItem{Label: "Resume attempt", Disabled: true, Detail: "nothing in progress"}
	if a := h.current; a != nil && a.Phase() == attempt.PhaseInProgress {
		resume = components.MenuItem{
			Label:  "Resume attempt",
			Detail: fmt.Sprintf("test %s, %d answered", a.TestID, a.Answered()),
			Action: func() tea.Cmd {
				return router.Push(h.quizScreen(a.TestID, a.CourseID, ""))
			},
		}
	}

	items := []components.MenuItem{
		{Label: "Take a test", Detail: "pick a course, then a test", Action: func() tea.Cmd {
			return router.Push(h.courseFinder(h.openTests))
		}},
		resume,
		{Label: "Search courses", Action: func() tea.Cmd {
			return router.Push(h.courseFinder(nil))
		}},
	}
	if h.deps.Identity.CanManage() {
		items = append(items,
			h.staffItem("My courses", catalog.MyCourses, h.openCourseQuestions),
			h.staffItem("My tests", catalog.MyTests, h.openQuestions),
			h.staffItem("My groups", catalog.MyGroups, h.openStudents),
		)
	}
	items = append(items,
		h.adminItem("Search users", catalog.Users),
		h.adminItem("Search groups", catalog.Groups),
		components.MenuItem{Label: "History", Detail: "finished attempts", Disabled: h.deps.Results == nil, Action: func() tea.Cmd {
			return router.Push(history.New(h.deps.Results))
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	h.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) adminItem(label string, kind catalog.Kind) components.MenuItem {
	if !h.deps.Identity.IsAdmin() {
		return components.MenuItem{Label: label, Detail: "admins only", Action: func() tea.Cmd {
			return router.Push(notice.Error(kind.Title(), "Only administrators can list "+kind.Noun()+"."))
		}}
	}
	return components.MenuItem{Label: label, Action: func() tea.Cmd {
		return router.Push(h.listing(kind, "", "", nil))
	}}
}

// staffItem opens a teacher panel listing. Only shown to staff.
func (h *HomeScreen) staffItem(label string, kind catalog.Kind, open func(catalog.Row) tea.Cmd) components.MenuItem {
	return components.MenuItem{Label: label, Detail: "teacher panel", Action: func() tea.Cmd {
		return router.Push(h.listing(kind, "", "", open))
	}}
}

func (h *HomeScreen) listing(kind catalog.Kind, parent api.ID, heading string, open func(catalog.Row) tea.Cmd) *finder.FinderScreen {
	return finder.New(finder.Options{
		Kind:     kind,
		Parent:   parent,
		Heading:  heading,
		Lister:   h.deps.Platform,
		Debounce: h.deps.Debounce,
		Open:     open,
		Log:      h.deps.Log,
	})
}

func (h *HomeScreen) courseFinder(open func(catalog.Row) tea.Cmd) *finder.FinderScreen {
	return h.listing(catalog.Courses, "", "", open)
}

// openTests lists the tests of a chosen course; choosing a test starts
// the quiz.
func (h *HomeScreen) openTests(course catalog.Row) tea.Cmd {
	return router.Push(h.listing(catalog.Tests, course.ID, heading(course, "Tests"), func(test catalog.Row) tea.Cmd {
		return router.Push(h.quizScreen(test.ID, test.CourseID, heading(test, "")))
	}))
}

// openCourseQuestions lists the tests of a taught course; choosing a test
// lists its questions.
func (h *HomeScreen) openCourseQuestions(course catalog.Row) tea.Cmd {
	return router.Push(h.listing(catalog.Tests, course.ID, heading(course, "Tests"), h.openQuestions))
}

func (h *HomeScreen) openQuestions(test catalog.Row) tea.Cmd {
	return router.Push(h.listing(catalog.Questions, test.ID, heading(test, "Questions"), nil))
}

func (h *HomeScreen) openStudents(group catalog.Row) tea.Cmd {
	return router.Push(h.listing(catalog.Students, group.ID, heading(group, "Students"), nil))
}

// heading returns the primary field of a row, or fallback when it is empty.
func heading(r catalog.Row, fallback string) string {
	if len(r.Fields) > 0 && r.Fields[0] != "" {
		return r.Fields[0]
	}
	return fallback
}

func (h *HomeScreen) quizScreen(testID, courseID api.ID, name string) *quiz.QuizScreen {
	deps := quiz.Deps{
		Questions: h.deps.Platform,
		Engine:    h.deps.Engine,
		Log:       h.deps.Log,
	}
	if h.deps.Results != nil {
		deps.History = h.deps.Results
	}
	return quiz.New(deps, testID, courseID, name)
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume refreshes the menu when a screen above returns here.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}
