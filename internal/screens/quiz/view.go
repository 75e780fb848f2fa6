package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/attempt"
	"github.com/abhisek/quizdesk/internal/ui/components"
	"github.com/abhisek/quizdesk/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	var body string
	switch s.stage {
	case stageLoading:
		body = theme.Hint.Render("Loading questions...")
	case stageStarting:
		body = theme.Hint.Render("Starting attempt...")
	case stageSubmitting:
		body = theme.Hint.Render("Grading and submitting your answers...")
	case stageFailed:
		body = theme.ErrorLine.Render(s.errMsg)
	case stageConfirm:
		body = s.renderConfirm()
	case stageAnswering:
		body = s.renderQuestion(width)
	case stageReview:
		body = s.renderReview()
	case stageCancel:
		body = s.renderCancel()
	case stageResults:
		body = s.renderResults()
	}

	if s.warning != "" && s.stage != stageFailed {
		body += "\n\n" + lipgloss.NewStyle().Foreground(theme.Accent).Render(s.warning)
	}
	return lipgloss.NewStyle().Width(width).Padding(1, 2).Render(body)
}

func (s *QuizScreen) renderConfirm() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.Title()))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%d questions", len(s.questions))))
	b.WriteString("\n")

	if s.remaining > 0 {
		b.WriteString(theme.Body.Render(fmt.Sprintf("Attempts remaining: %d of %d", s.remaining, attempt.MaxAttempts)))
	} else {
		b.WriteString(theme.Incorrect.Render("No attempts left on this test."))
	}
	b.WriteString("\n")

	if s.replaces != nil && s.remaining > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf(
			"Starting replaces your unfinished attempt on test %s.", s.replaces.TestID)))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n" + theme.ErrorLine.Render(s.errMsg) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(s.buttons.View())
	return b.String()
}

func (s *QuizScreen) answered() int {
	if a := s.deps.Engine.Current(); a != nil {
		return a.Answered()
	}
	return 0
}

func (s *QuizScreen) renderQuestion(width int) string {
	q := s.current()
	var b strings.Builder

	barWidth := min(max(width-8, 20), 60)
	b.WriteString(components.NewProgressBar("Answered", s.answered(), len(s.questions), barWidth).View())
	b.WriteString("\n\n")

	heading := fmt.Sprintf("Question %d of %d", s.index+1, len(s.questions))
	if q.Difficulty != "" {
		heading += "  " + theme.Hint.Render(q.Difficulty)
	}
	b.WriteString(theme.Subtitle.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Width(max(width-6, 20)).Render(q.Text))
	b.WriteString("\n\n")

	if q.Type == api.QuestionOpen {
		b.WriteString(s.input.View())
	} else {
		if q.MultipleChoice {
			b.WriteString(theme.Hint.Render("Select all that apply"))
			b.WriteString("\n")
		}
		b.WriteString(s.options.View())
	}

	if s.resumed {
		b.WriteString("\n" + theme.Hint.Render("Resumed your unfinished attempt."))
	}
	return b.String()
}

func (s *QuizScreen) renderReview() string {
	a := s.deps.Engine.Current()
	var missing []string
	for i, q := range s.questions {
		if a == nil {
			break
		}
		if ans, ok := a.Answers[q.ID]; !ok || strings.TrimSpace(strings.Join(ans.Values, "")) == "" {
			missing = append(missing, fmt.Sprintf("%d", i+1))
		}
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Submit your answers?"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Answered %d of %d questions.", len(s.questions)-len(missing), len(s.questions))))
	b.WriteString("\n")
	if len(missing) > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(
			"Unanswered: " + strings.Join(missing, ", ") + ". They count as wrong."))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n" + theme.ErrorLine.Render(s.errMsg) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(s.buttons.View())
	return b.String()
}

func (s *QuizScreen) renderCancel() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Discard this attempt?"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("Your local answers are deleted. The attempt still counts towards your limit."))
	b.WriteString("\n\n")
	b.WriteString(s.buttons.View())
	return b.String()
}

func (s *QuizScreen) renderResults() string {
	r := s.result
	var b strings.Builder
	b.WriteString(theme.Title.Render("Results"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Score: %d / %d", r.Score, r.Total())))
	b.WriteString("\n")
	b.WriteString(theme.Correct.Render(fmt.Sprintf("Correct: %d", r.Correct)))
	b.WriteString("   ")
	b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Wrong: %d", r.Wrong)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Attempt %d of %d", r.AttemptNumber, attempt.MaxAttempts)))
	b.WriteString("\n\n")

	for i, q := range s.questions {
		mark := theme.Incorrect.Render("✗")
		if r.PerQuestion[q.ID] {
			mark = theme.Correct.Render("✓")
		}
		b.WriteString(fmt.Sprintf("%s %d. %s", mark, i+1, q.Text))
		if ans, ok := s.answers[q.ID]; ok && q.Type == api.QuestionOpen && q.CorrectAnswerText != "" {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("  (%.0f%% match)", attempt.Similarity(ans.Value(), q.CorrectAnswerText))))
		}
		b.WriteString("\n")
	}
	return b.String()
}
