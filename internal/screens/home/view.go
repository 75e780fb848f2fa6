package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdesk/internal/attempt"
	"github.com/abhisek/quizdesk/internal/ui/theme"
)

const titleFull = `┏━┓╻ ╻╻╺━┓╺┳┓┏━╸┏━┓╻┏
┃┓┃┃ ┃┃┏━┛ ┃┃┣╸ ┗━┓┣┻┓
┗┻┛┗━┛╹┗━╸╺┻┛┗━╸┗━┛╹ ╹`

const titleCompact = "Q U I Z D E S K"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 64)
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 22 || width < 80
	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		h.renderStatus(cw),
		lipgloss.NewStyle().Width(cw).Render(h.menu.View()),
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	text := titleFull
	if compact {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Title.Render(text))
}

// renderStatus shows who is signed in and the attempt in progress.
func (h *HomeScreen) renderStatus(cw int) string {
	id := h.deps.Identity
	who := theme.Hint.Render("not signed in")
	if id.Email != "" || id.UserID != "" {
		name := id.Email
		if name == "" {
			name = "user " + id.UserID
		}
		who = theme.Body.Render(name)
		if id.Role != "" {
			who += theme.Subtitle.Render("  (" + id.Role + ")")
		}
	}

	var state string
	switch a := h.current; a.Phase() {
	case attempt.PhaseInProgress:
		state = lipgloss.NewStyle().Foreground(theme.Accent).Render(
			fmt.Sprintf("Attempt %d on test %s in progress, %d answered", a.Number, a.TestID, a.Answered()))
	case attempt.PhaseFinished:
		state = theme.Subtitle.Render(fmt.Sprintf("Attempt %d on test %s submitted", a.Number, a.TestID))
	default:
		state = theme.Subtitle.Render("No attempt in progress")
	}

	return theme.Card.Width(cw).Render(who + "\n" + state)
}
