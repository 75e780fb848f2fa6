package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizdesk/internal/ui/theme"
)

// Button is one choice of a ButtonRow.
type Button struct {
	Label   string
	OnPress func() tea.Cmd
}

// ButtonRow is a horizontal set of buttons, one of them focused.
type ButtonRow struct {
	Buttons []Button
	Focused int
}

// NewButtonRow creates a row with the first button focused.
func NewButtonRow(buttons ...Button) ButtonRow {
	return ButtonRow{Buttons: buttons}
}

// Update moves focus with left/right/tab and presses on enter.
func (r ButtonRow) Update(msg tea.Msg) (ButtonRow, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(r.Buttons) == 0 {
		return r, nil
	}

	switch kmsg.String() {
	case "left", "h", "shift+tab":
		r.Focused = (r.Focused - 1 + len(r.Buttons)) % len(r.Buttons)
	case "right", "l", "tab":
		r.Focused = (r.Focused + 1) % len(r.Buttons)
	case "enter":
		if b := r.Buttons[r.Focused]; b.OnPress != nil {
			return r, b.OnPress()
		}
	}
	return r, nil
}

// View renders the row.
func (r ButtonRow) View() string {
	parts := make([]string, len(r.Buttons))
	for i, b := range r.Buttons {
		if i == r.Focused {
			parts[i] = theme.ButtonActive.Render("▸ " + b.Label)
		} else {
			parts[i] = theme.ButtonInactive.Render("  " + b.Label)
		}
	}
	return strings.Join(parts, " ")
}
