package finder

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdesk/internal/catalog"
	"github.com/abhisek/quizdesk/internal/ui/components"
	"github.com/abhisek/quizdesk/internal/ui/layout"
	"github.com/abhisek/quizdesk/internal/ui/theme"
)

func (f *FinderScreen) View(width, height int) string {
	inner := max(width-4, 20)
	var b strings.Builder

	b.WriteString(f.input.View())
	b.WriteString("\n")

	if box := components.RenderSuggestions(f.sugg.Suggestions(), f.sugg.Cursor(), min(inner, 80)); box != "" {
		b.WriteString(box)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case f.loading:
		b.WriteString(theme.Hint.Render("Loading " + f.opts.Kind.Noun() + "..."))
	case f.errMsg != "":
		b.WriteString(theme.ErrorLine.Render(f.errMsg))
	default:
		used := lipgloss.Height(b.String())
		b.WriteString(f.renderTable(inner, max(height-used-3, 3)))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (f *FinderScreen) renderTable(width, maxRows int) string {
	vis := f.sugg.Visible()
	total := f.sugg.Searcher().Len()

	var b strings.Builder
	count := fmt.Sprintf("%d %s", total, f.opts.Kind.Noun())
	if f.sugg.Filtered() {
		count = fmt.Sprintf("%d of %d %s matching %q", len(vis), total, f.opts.Kind.Noun(), f.sugg.Query())
	}
	b.WriteString(theme.Subtitle.Render(count))
	b.WriteString("\n")

	if len(vis) == 0 {
		b.WriteString(theme.Hint.Render("Nothing to show."))
		return b.String()
	}

	headers := f.opts.Kind.Headers()
	widths := columnWidths(headers, f.Rows(), width-2)
	b.WriteString("  " + theme.Hint.Render(formatRow(headers, widths)))
	b.WriteString("\n")

	// Scroll so the cursor stays in view.
	start := 0
	if f.cursor >= maxRows {
		start = f.cursor - maxRows + 1
	}
	end := min(start+maxRows, len(vis))

	for i := start; i < end; i++ {
		line := formatRow(vis[i].Item.Columns, widths)
		if f.focus == focusTable && i == f.cursor {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if end < len(vis) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  … %d more", len(vis)-end)))
	}
	return b.String()
}

// columnWidths sizes columns to their content, shrinking the widest ones
// until the row fits in width.
func columnWidths(headers []string, rows []catalog.Row, width int) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, c := range r.Columns {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}

	gap := 2 * (len(widths) - 1)
	for sum(widths)+gap > width {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 4 {
			break
		}
		widths[widest]--
	}
	return widths
}

func formatRow(cols []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		var c string
		if i < len(cols) {
			c = layout.Truncate(cols[i], w)
		}
		parts[i] = c + strings.Repeat(" ", max(w-lipgloss.Width(c), 0))
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
