// Package finder is a searchable listing of courses, tests, users or groups.
package finder

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/catalog"
	"github.com/abhisek/quizdesk/internal/logging"
	"github.com/abhisek/quizdesk/internal/screen"
	"github.com/abhisek/quizdesk/internal/search"
	"github.com/abhisek/quizdesk/internal/ui/components"
	"github.com/abhisek/quizdesk/internal/ui/layout"
)

// rowsMsg carries the loaded listing.
type rowsMsg struct {
	Rows []catalog.Row
	Err  error
}

// debounceMsg fires after a pause in typing.
type debounceMsg struct {
	Gen uint64
}

// Options configure a FinderScreen.
type Options struct {
	Kind catalog.Kind
	// Parent is the course, test or group a scoped listing belongs to.
	Parent api.ID
	// Heading replaces the kind's title in the header when set.
	Heading  string
	Lister   catalog.Lister
	Debounce time.Duration
	// Open is called with the row chosen from the table. Rows cannot be
	// opened when it is nil.
	Open func(catalog.Row) tea.Cmd
	Log  logrus.FieldLogger
}

type focusArea int

const (
	focusSearch focusArea = iota
	focusTable
)

// FinderScreen shows a listing with a search box. Typing refreshes an
// autocomplete list after a pause; Enter applies the query as a filter.
type FinderScreen struct {
	opts Options

	loading bool
	errMsg  string

	sugg     *search.Suggester[catalog.Row]
	debounce *search.Debouncer
	pending  uint64
	input    components.TextInput

	focus  focusArea
	cursor int
}

var _ screen.Screen = (*FinderScreen)(nil)
var _ screen.KeyHintProvider = (*FinderScreen)(nil)
var _ screen.EscapeHandler = (*FinderScreen)(nil)

// New creates a finder. The listing is fetched on Init.
func New(opts Options) *FinderScreen {
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	return &FinderScreen{
		opts:     opts,
		loading:  true,
		sugg:     search.NewSuggester(catalog.NewSearcher(nil)),
		debounce: search.NewDebouncer(opts.Debounce),
		input:    components.NewTextInput("", "Search "+opts.Kind.Noun()+"...", 200),
	}
}

func (f *FinderScreen) Init() tea.Cmd {
	return tea.Batch(f.load(), f.input.Init())
}

func (f *FinderScreen) Title() string {
	if f.opts.Heading != "" {
		return f.opts.Heading
	}
	return f.opts.Kind.Title()
}

// HandlesEscape keeps Esc for clearing the search and leaving the table.
func (f *FinderScreen) HandlesEscape() bool {
	return f.focus == focusTable || f.input.Value() != "" || f.sugg.Open() || f.sugg.Filtered()
}

func (f *FinderScreen) KeyHints() []layout.KeyHint {
	if f.focus == focusTable {
		hints := []layout.KeyHint{{Key: "↑/↓", Description: "Move"}}
		if f.opts.Open != nil {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Open"})
		}
		return append(hints,
			layout.KeyHint{Key: "Tab", Description: "Search"},
			layout.KeyHint{Key: "Esc", Description: "Back to search"},
		)
	}
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Suggestions"},
		{Key: "Enter", Description: "Apply"},
		{Key: "Tab", Description: "Results"},
		{Key: "Esc", Description: "Clear"},
	}
}

// Rows returns the rows currently shown in the table.
func (f *FinderScreen) Rows() []catalog.Row {
	vis := f.sugg.Visible()
	rows := make([]catalog.Row, len(vis))
	for i, m := range vis {
		rows[i] = m.Item
	}
	return rows
}

func (f *FinderScreen) load() tea.Cmd {
	lister, kind, parent := f.opts.Lister, f.opts.Kind, f.opts.Parent
	return func() tea.Msg {
		rows, err := catalog.Load(context.Background(), lister, kind, parent)
		return rowsMsg{Rows: rows, Err: err}
	}
}

func (f *FinderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case rowsMsg:
		f.loading = false
		if msg.Err != nil {
			f.opts.Log.WithError(msg.Err).WithField("kind", f.opts.Kind).Error("load listing")
			f.errMsg = describeLoadError(f.opts.Kind, msg.Err)
			return f, nil
		}
		f.sugg = search.NewSuggester(catalog.NewSearcher(msg.Rows))
		f.sugg.SetQuery(f.input.Value())
		f.cursor = 0
		return f, nil

	case debounceMsg:
		if f.debounce.Current(msg.Gen) && f.focus == focusSearch {
			f.sugg.SetQuery(f.input.Value())
		}
		return f, nil

	case tea.BlurMsg:
		f.sugg.Dismiss()
		return f, nil

	case tea.KeyMsg:
		if f.focus == focusTable {
			return f.handleTableKey(msg)
		}
		return f.handleSearchKey(msg)
	}

	var cmd tea.Cmd
	f.input, cmd, _ = f.input.Update(msg)
	return f, cmd
}

func (f *FinderScreen) handleSearchKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "down":
		f.sugg.Next()
		return f, nil
	case "up":
		f.sugg.Prev()
		return f, nil
	case "enter":
		f.flush()
		if f.sugg.Enter() {
			f.input.SetValue(f.sugg.Query())
		}
		f.cursor = 0
		return f, nil
	case "esc", "ctrl+u":
		f.debounce.Bump()
		f.sugg.Clear()
		f.input.SetValue("")
		f.cursor = 0
		return f, nil
	case "tab":
		f.debounce.Bump()
		f.sugg.Dismiss()
		if len(f.sugg.Visible()) > 0 {
			f.focus = focusTable
			f.input.Model.Blur()
		}
		return f, nil
	}

	var (
		cmd     tea.Cmd
		changed bool
	)
	f.input, cmd, changed = f.input.Update(msg)
	if !changed {
		return f, cmd
	}
	gen := f.debounce.Bump()
	f.pending = gen
	tick := tea.Tick(f.debounce.Delay, func(time.Time) tea.Msg {
		return debounceMsg{Gen: gen}
	})
	return f, tea.Batch(cmd, tick)
}

// flush applies typing that is still waiting on the debounce.
func (f *FinderScreen) flush() {
	f.debounce.Bump()
	if f.input.Value() != f.sugg.Query() {
		f.sugg.SetQuery(f.input.Value())
	}
}

func (f *FinderScreen) handleTableKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	n := len(f.sugg.Visible())
	switch msg.String() {
	case "up", "k":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down", "j":
		if f.cursor < n-1 {
			f.cursor++
		}
	case "home", "g":
		f.cursor = 0
	case "end", "G":
		f.cursor = max(n-1, 0)
	case "enter":
		if f.opts.Open != nil && f.cursor < n {
			return f, f.opts.Open(f.sugg.Visible()[f.cursor].Item)
		}
	case "tab", "/", "esc":
		f.focus = focusSearch
		return f, f.input.Model.Focus()
	}
	return f, nil
}

func describeLoadError(kind catalog.Kind, err error) string {
	switch {
	case api.IsUnauthorized(err):
		return fmt.Sprintf("You do not have access to %s.", kind.Noun())
	case api.IsNotFound(err):
		return fmt.Sprintf("No %s found here.", kind.Noun())
	}
	return fmt.Sprintf("Could not load %s: %v", kind.Noun(), err)
}
