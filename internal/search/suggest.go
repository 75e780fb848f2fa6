package search

import (
	"strings"
	"time"
)

// DefaultLimit is the maximum number of suggestions shown.
const DefaultLimit = 10

// DefaultDebounce is the pause in typing before suggestions refresh.
const DefaultDebounce = 300 * time.Millisecond

// DisplaySeparator joins the fields of a suggestion for display.
const DisplaySeparator = " — "

// Suggestion is one entry of the autocomplete list.
type Suggestion[T any] struct {
	Match[T]
	Display  string
	Segments []Segment
}

// Suggester is the state of a search box with an autocomplete list and a
// filtered view of the records. It is not safe for concurrent use.
type Suggester[T any] struct {
	s     *Searcher[T]
	limit int

	query       string
	suggestions []Suggestion[T]
	open        bool
	cursor      int

	filter   []Match[T]
	filtered bool
}

// NewSuggester returns a Suggester over s with an empty query and every
// record visible.
func NewSuggester[T any](s *Searcher[T]) *Suggester[T] {
	return &Suggester[T]{s: s, limit: DefaultLimit, cursor: -1}
}

// Searcher returns the underlying record snapshot.
func (g *Suggester[T]) Searcher() *Searcher[T] { return g.s }

// Query returns the current text of the search box.
func (g *Suggester[T]) Query() string { return g.query }

// Open reports whether the suggestion list is shown.
func (g *Suggester[T]) Open() bool { return g.open }

// Cursor returns the highlighted suggestion, or -1.
func (g *Suggester[T]) Cursor() int { return g.cursor }

// Suggestions returns the entries of the open list.
func (g *Suggester[T]) Suggestions() []Suggestion[T] {
	if !g.open {
		return nil
	}
	return g.suggestions
}

// Filtered reports whether a filter is applied to the records.
func (g *Suggester[T]) Filtered() bool { return g.filtered }

// Visible returns the records currently shown.
func (g *Suggester[T]) Visible() []Match[T] {
	if !g.filtered {
		return g.s.All()
	}
	return g.filter
}

// SetQuery refreshes the suggestion list for the text in the search box.
// It is the debounced half of typing; the filter is left alone. An empty
// query resets everything.
func (g *Suggester[T]) SetQuery(q string) {
	if q == "" {
		g.Clear()
		return
	}
	g.query = q
	g.cursor = -1

	results := g.s.Search(q)
	needle := Normalize(q)
	n := min(len(results), g.limit)
	g.suggestions = make([]Suggestion[T], 0, n)
	for _, m := range results[:n] {
		display := g.display(m.Index)
		sug := Suggestion[T]{Match: m, Display: display}
		if m.Tier == TierFuzzy {
			sug.Segments = []Segment{{Text: display}}
		} else {
			sug.Segments = Highlight(display, needle)
		}
		g.suggestions = append(g.suggestions, sug)
	}
	g.open = true
}

// Next moves the highlight down, wrapping to the top.
func (g *Suggester[T]) Next() {
	if !g.open || len(g.suggestions) == 0 {
		return
	}
	g.cursor = (g.cursor + 1) % len(g.suggestions)
}

// Prev moves the highlight up, wrapping to the bottom. With nothing
// highlighted it starts from the last entry.
func (g *Suggester[T]) Prev() {
	if !g.open || len(g.suggestions) == 0 {
		return
	}
	if g.cursor < 0 {
		g.cursor = len(g.suggestions) - 1
		return
	}
	g.cursor = (g.cursor - 1 + len(g.suggestions)) % len(g.suggestions)
}

// Enter selects the highlighted suggestion or, with nothing highlighted,
// filters the records by the raw query. The list closes either way. It
// reports whether a suggestion was selected.
func (g *Suggester[T]) Enter() bool {
	if g.open && g.cursor >= 0 && g.cursor < len(g.suggestions) {
		g.Select(g.cursor)
		return true
	}
	g.filter = g.s.Search(g.query)
	g.filtered = Normalize(g.query) != ""
	g.close()
	return false
}

// Select filters the records by the typed query and then fills the query
// with suggestion i's primary field.
func (g *Suggester[T]) Select(i int) {
	if i < 0 || i >= len(g.suggestions) {
		return
	}
	g.filter = g.s.Search(g.query)
	g.filtered = true
	g.query = g.s.Primary(g.suggestions[i].Index)
	g.close()
}

// Clear resets the query, the filter and the list.
func (g *Suggester[T]) Clear() {
	g.query = ""
	g.filter = nil
	g.filtered = false
	g.close()
}

// Dismiss closes the list and keeps the filter.
func (g *Suggester[T]) Dismiss() {
	g.close()
}

func (g *Suggester[T]) close() {
	g.suggestions = nil
	g.open = false
	g.cursor = -1
}

func (g *Suggester[T]) display(i int) string {
	var parts []string
	for _, f := range g.s.Fields(i) {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, DisplaySeparator)
}

// Debouncer drops all but the latest of a burst of events. Each Bump
// starts a new generation; a delayed callback acts only if its generation
// is still current when it fires.
type Debouncer struct {
	Delay time.Duration
	gen   uint64
}

// NewDebouncer returns a Debouncer with the given delay, or DefaultDebounce
// when delay is not positive.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{Delay: delay}
}

// Bump starts a new generation and returns it.
func (d *Debouncer) Bump() uint64 {
	d.gen++
	return d.gen
}

// Current reports whether gen is the latest generation.
func (d *Debouncer) Current(gen uint64) bool {
	return gen == d.gen
}
