package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdesk/internal/screen"
	"github.com/abhisek/quizdesk/internal/store"
	"github.com/abhisek/quizdesk/internal/ui/layout"
	"github.com/abhisek/quizdesk/internal/ui/theme"
)

// Limit is the number of results shown.
const Limit = 50

// Source lists recorded results, newest first.
type Source interface {
	Recent(ctx context.Context, limit int) ([]store.ResultRecord, error)
}

type historyLoadedMsg struct {
	Results []store.ResultRecord
	Err     error
}

// HistoryScreen displays finished attempts recorded on this machine.
type HistoryScreen struct {
	source   Source
	results  []store.ResultRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source Source) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	source := s.source
	return func() tea.Msg {
		results, err := source.Recent(context.Background(), Limit)
		return historyLoadedMsg{Results: results, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No finished attempts yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.results {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		total := r.Correct + r.Wrong
		line := fmt.Sprintf("%s%s  test %s  attempt %d  %d/%d",
			prefix, r.FinishedAt.Format("Jan 02, 2006 15:04"), r.TestID, r.AttemptNumber, r.Score, total)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    course %s  attempt id %s  correct %d  wrong %d  (%s)",
				orDash(r.CourseID), r.AttemptID, r.Correct, r.Wrong, percent(r.Correct, total))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(scoreColor(r.Correct, total)).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func percent(n, total int) string {
	if total == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", float64(n)/float64(total)*100)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func scoreColor(correct, total int) color.Color {
	switch {
	case total == 0:
		return theme.TextDim
	case correct*2 >= total:
		return theme.Success
	default:
		return theme.Error
	}
}
