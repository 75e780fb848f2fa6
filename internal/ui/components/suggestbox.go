package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdesk/internal/search"
	"github.com/abhisek/quizdesk/internal/ui/layout"
	"github.com/abhisek/quizdesk/internal/ui/theme"
)

// RenderSegments renders highlighted text, marking the matched segment.
func RenderSegments(segs []search.Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Mark {
			b.WriteString(theme.Mark.Render(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// RenderSuggestions renders an autocomplete list. cursor is the
// highlighted row or -1. Returns "" for an empty list.
func RenderSuggestions[T any](sugs []search.Suggestion[T], cursor, width int) string {
	if len(sugs) == 0 {
		return ""
	}
	inner := max(width-4, 10)

	lines := make([]string, len(sugs))
	for i, s := range sugs {
		segs := s.Segments
		if lipgloss.Width(s.Display) > inner-2 {
			// Marks are dropped when the line must be cut.
			segs = []search.Segment{{Text: layout.Truncate(s.Display, inner-2)}}
		}
		text := RenderSegments(segs)
		if i == cursor {
			lines[i] = theme.Selected.Render("▸ ") + text
		} else {
			lines[i] = "  " + text
		}
	}
	return theme.SuggestBox.Width(width).Render(strings.Join(lines, "\n"))
}
