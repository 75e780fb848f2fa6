package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourseSuggester() *Suggester[course] {
	return NewSuggester(New([]course{
		{title: "Algebra", desc: "Equations"},
		{title: "Algebra Basics", desc: "Start here"},
		{title: "Linear Algebra", desc: "Vectors"},
		{title: "Biology", desc: "Cells"},
	}, courseFields))
}

func TestSuggester_SetQueryBuildsList(t *testing.T) {
	g := newCourseSuggester()
	g.SetQuery("basics")

	require.True(t, g.Open())
	sugs := g.Suggestions()
	require.Len(t, sugs, 1)
	assert.Equal(t, "Algebra Basics — Start here", sugs[0].Display)
	assert.Equal(t, []Segment{
		{Text: "Algebra "}, {Text: "Basics", Mark: true}, {Text: " — Start here"},
	}, sugs[0].Segments)
	assert.Equal(t, -1, g.Cursor())

	// Typing does not filter the rows.
	assert.False(t, g.Filtered())
	assert.Len(t, g.Visible(), 4)
}

func TestSuggester_FuzzyNotHighlighted(t *testing.T) {
	g := newCourseSuggester()
	g.SetQuery("lgbr")

	sugs := g.Suggestions()
	require.NotEmpty(t, sugs)
	for _, s := range sugs {
		assert.Equal(t, TierFuzzy, s.Tier)
		assert.Equal(t, []Segment{{Text: s.Display}}, s.Segments)
	}
}

func TestSuggester_LimitsToTen(t *testing.T) {
	var items []course
	for i := range 25 {
		items = append(items, course{title: fmt.Sprintf("Course %02d", i)})
	}
	g := NewSuggester(New(items, courseFields))
	g.SetQuery("course")

	sugs := g.Suggestions()
	require.Len(t, sugs, DefaultLimit)
	assert.Equal(t, "Course 00", sugs[0].Display)
	assert.Equal(t, "Course 09", sugs[9].Display)
}

func TestSuggester_CursorWraps(t *testing.T) {
	g := newCourseSuggester()
	g.SetQuery("algebra")
	g.SetQuery("alg")
	require.Len(t, g.Suggestions(), 3)

	g.Prev()
	assert.Equal(t, 2, g.Cursor())
	g.Next()
	assert.Equal(t, 0, g.Cursor())
	g.Next()
	g.Next()
	g.Next()
	assert.Equal(t, 0, g.Cursor())
}

func TestSuggester_EnterWithHighlightSelects(t *testing.T) {
	g := newCourseSuggester()
	g.SetQuery("alg")
	g.Next()
	g.Next()

	assert.True(t, g.Enter())
	assert.Equal(t, "Algebra Basics", g.Query())
	assert.False(t, g.Open())
	assert.True(t, g.Filtered())
	assert.Equal(t, []string{"Algebra", "Algebra Basics", "Linear Algebra"}, titles(g.Visible()))
}

func TestSuggester_SelectKeepsTypedQueryMatches(t *testing.T) {
	g := newCourseSuggester()
	g.SetQuery("alg")
	g.Next()

	assert.True(t, g.Enter())
	assert.Equal(t, "Algebra", g.Query())
	assert.Equal(t, []string{"Algebra", "Algebra Basics", "Linear Algebra"}, titles(g.Visible()))

	// Applying the filled-in query afterwards narrows to the exact title.
	assert.False(t, g.Enter())
	assert.Equal(t, []string{"Algebra"}, titles(g.Visible()))
}

func TestSuggester_EnterWithoutHighlightFilters(t *testing.T) {
	g := newCourseSuggester()
	g.SetQuery("alg")

	assert.False(t, g.Enter())
	assert.False(t, g.Open())
	assert.Equal(t, "alg", g.Query())
	assert.Equal(t, []string{"Algebra", "Algebra Basics", "Linear Algebra"}, titles(g.Visible()))
}

func TestSuggester_EscapeClearsEverything(t *testing.T) {
	g := newCourseSuggester()
	g.SetQuery("bio")
	g.Enter()
	require.Len(t, g.Visible(), 1)

	g.SetQuery("alg")
	g.Clear()
	assert.Equal(t, "", g.Query())
	assert.False(t, g.Open())
	assert.False(t, g.Filtered())
	assert.Len(t, g.Visible(), 4)
}

func TestSuggester_DismissKeepsFilter(t *testing.T) {
	g := newCourseSuggester()
	g.SetQuery("bio")
	g.Enter()

	g.SetQuery("alg")
	g.Next()
	g.Dismiss()
	assert.False(t, g.Open())
	assert.Equal(t, -1, g.Cursor())
	assert.Equal(t, []string{"Biology"}, titles(g.Visible()))
}

func TestSuggester_EmptyQueryResets(t *testing.T) {
	g := newCourseSuggester()
	g.SetQuery("bio")
	g.Enter()
	g.SetQuery("")

	assert.False(t, g.Open())
	assert.False(t, g.Filtered())
	assert.Len(t, g.Visible(), 4)
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(0)
	assert.Equal(t, DefaultDebounce, d.Delay)

	first := d.Bump()
	second := d.Bump()
	assert.False(t, d.Current(first))
	assert.True(t, d.Current(second))

	assert.Equal(t, 50*time.Millisecond, NewDebouncer(50*time.Millisecond).Delay)
}
