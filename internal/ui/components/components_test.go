package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/quizdesk/internal/search"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestOptionList_SingleSelectsOne(t *testing.T) {
	o := NewOptionList([]string{"a", "b", "c"}, false)

	o, changed := o.Update(keyPress(' '))
	assert.True(t, changed)
	assert.Equal(t, []int{0}, o.Checked())

	o, _ = o.Update(specialKey(tea.KeyDown))
	o, _ = o.Update(keyPress(' '))
	assert.Equal(t, []int{1}, o.Checked())

	o, changed = o.Update(keyPress('3'))
	assert.True(t, changed)
	assert.Equal(t, 2, o.Cursor)
	assert.Equal(t, []int{2}, o.Checked())
}

func TestOptionList_MultiToggles(t *testing.T) {
	o := NewOptionList([]string{"a", "b", "c"}, true)

	o, _ = o.Update(keyPress('1'))
	o, _ = o.Update(keyPress('3'))
	assert.Equal(t, []int{0, 2}, o.Checked())

	o, _ = o.Update(keyPress('1'))
	assert.Equal(t, []int{2}, o.Checked())

	o, changed := o.Update(specialKey(tea.KeyUp))
	assert.False(t, changed)
	assert.Equal(t, 1, o.Cursor)
}

func TestOptionList_SetChecked(t *testing.T) {
	o := NewOptionList([]string{"a", "b", "c"}, false)
	o.SetChecked(1, 2)
	assert.Equal(t, []int{1}, o.Checked())

	m := NewOptionList([]string{"a", "b", "c"}, true)
	m.SetChecked(0, 2, 7)
	assert.Equal(t, []int{0, 2}, m.Checked())
	assert.Contains(t, m.View(), "[x] 1. a")
}

func TestOptionList_CopiesOnWrite(t *testing.T) {
	o := NewOptionList([]string{"a", "b"}, true)
	before := o
	o, _ = o.Update(keyPress(' '))
	assert.Empty(t, before.Checked())
	assert.Equal(t, []int{0}, o.Checked())
}

func TestButtonRow(t *testing.T) {
	pressed := ""
	row := NewButtonRow(
		Button{Label: "Start", OnPress: func() tea.Cmd { pressed = "start"; return nil }},
		Button{Label: "Cancel", OnPress: func() tea.Cmd { pressed = "cancel"; return nil }},
	)

	row, _ = row.Update(specialKey(tea.KeyRight))
	assert.Equal(t, 1, row.Focused)
	row, _ = row.Update(specialKey(tea.KeyRight))
	assert.Equal(t, 0, row.Focused)
	row, _ = row.Update(specialKey(tea.KeyLeft))
	row, _ = row.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, "cancel", pressed)
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "one", Disabled: true},
		{Label: "two"},
		{Label: "three", Disabled: true},
		{Label: "four"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(specialKey(tea.KeyDown))
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(specialKey(tea.KeyUp))
	assert.Equal(t, 1, m.Selected)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, 0.5, NewProgressBar("", 2, 4, 40).Fraction())
	assert.Equal(t, 0.0, NewProgressBar("", 2, 0, 40).Fraction())
	assert.Equal(t, 1.0, NewProgressBar("", 9, 4, 40).Fraction())
	assert.Contains(t, NewProgressBar("Answered", 3, 5, 40).View(), "3/5")
}

func TestRenderSuggestions(t *testing.T) {
	assert.Equal(t, "", RenderSuggestions[string](nil, -1, 40))

	sugs := []search.Suggestion[string]{
		{Display: "Algebra", Segments: []search.Segment{{Text: "Alg", Mark: true}, {Text: "ebra"}}},
		{Display: "Linear Algebra", Segments: []search.Segment{{Text: "Linear Algebra"}}},
	}
	out := RenderSuggestions(sugs, 1, 40)
	assert.Contains(t, out, "ebra")
	assert.Contains(t, out, "Linear Algebra")
	assert.Contains(t, out, "▸")
	assert.Equal(t, 1, strings.Count(out, "▸"))
}
