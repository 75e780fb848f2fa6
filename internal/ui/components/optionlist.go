package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdesk/internal/ui/theme"
)

// OptionList lets the learner pick one option (radio) or several
// (checkboxes) of a closed question.
type OptionList struct {
	Labels []string
	Multi  bool
	Cursor int

	checked []bool
}

// NewOptionList creates an option list with nothing checked.
func NewOptionList(labels []string, multi bool) OptionList {
	return OptionList{
		Labels:  labels,
		Multi:   multi,
		checked: make([]bool, len(labels)),
	}
}

// SetChecked marks the given indexes as checked, clearing the rest. Used
// to restore a saved answer.
func (o *OptionList) SetChecked(idx ...int) {
	o.checked = make([]bool, len(o.Labels))
	for _, i := range idx {
		if i >= 0 && i < len(o.checked) {
			o.checked[i] = true
			if !o.Multi {
				break
			}
		}
	}
}

// Checked returns the checked indexes in order.
func (o OptionList) Checked() []int {
	var out []int
	for i, c := range o.checked {
		if c {
			out = append(out, i)
		}
	}
	return out
}

// Update handles navigation and selection. Space or the option's number
// toggles it; in single mode toggling selects it and clears the others.
// The second return value reports whether the selection changed.
func (o OptionList) Update(msg tea.Msg) (OptionList, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(o.Labels) == 0 {
		return o, false
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Labels)-1 {
			o.Cursor++
		}
	case "space", " ":
		o.toggle(o.Cursor)
		return o, true
	default:
		// Number keys jump to and toggle an option.
		if n, err := strconv.Atoi(kmsg.String()); err == nil && n >= 1 && n <= len(o.Labels) {
			o.Cursor = n - 1
			o.toggle(o.Cursor)
			return o, true
		}
	}
	return o, false
}

func (o *OptionList) toggle(i int) {
	o.checked = append([]bool(nil), o.checked...)
	if o.Multi {
		o.checked[i] = !o.checked[i]
		return
	}
	for j := range o.checked {
		o.checked[j] = j == i
	}
}

// View renders the options.
func (o OptionList) View() string {
	var b strings.Builder
	for i, label := range o.Labels {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}

		box := "( )"
		if o.Multi {
			box = "[ ]"
		}
		if o.checked[i] {
			box = "(•)"
			if o.Multi {
				box = "[x]"
			}
		}

		line := fmt.Sprintf("%s%s %d. %s", prefix, box, i+1, label)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == o.Cursor {
			style = theme.Selected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
