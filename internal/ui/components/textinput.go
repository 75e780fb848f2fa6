package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdesk/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with quizdesk styling.
type TextInput struct {
	Model textinput.Model
	Label string
}

// NewTextInput creates a focused text input. charLimit of 0 means no limit.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()

	return TextInput{
		Model: ti,
		Label: label,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. The second return value reports whether the
// text changed.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd, bool) {
	before := t.Model.Value()
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd, t.Model.Value() != before
}

// View renders the text input.
func (t TextInput) View() string {
	if t.Label == "" {
		return t.Model.View()
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Label) + "\n" + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value and moves the cursor to the end.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
	t.Model.CursorEnd()
}
