package notice

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdesk/internal/router"
	"github.com/abhisek/quizdesk/internal/screen"
	"github.com/abhisek/quizdesk/internal/ui/layout"
	"github.com/abhisek/quizdesk/internal/ui/theme"
)

// NoticeScreen shows a short message until any key is pressed.
type NoticeScreen struct {
	title   string
	message string
	isError bool
}

var _ screen.Screen = (*NoticeScreen)(nil)
var _ screen.KeyHintProvider = (*NoticeScreen)(nil)

// New creates a new NoticeScreen with the given title and message.
func New(title, message string) *NoticeScreen {
	return &NoticeScreen{title: title, message: message}
}

// Error creates a NoticeScreen that renders its message as an error.
func Error(title, message string) *NoticeScreen {
	return &NoticeScreen{title: title, message: message, isError: true}
}

func (p *NoticeScreen) Init() tea.Cmd {
	return nil
}

func (p *NoticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return p, router.Pop()
	}
	return p, nil
}

func (p *NoticeScreen) View(width, height int) string {
	fg := theme.Text
	if p.isError {
		fg = theme.Error
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(fg).
		Render(p.message)
}

func (p *NoticeScreen) Title() string {
	return p.title
}

func (p *NoticeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "any key", Description: "Back"}}
}
