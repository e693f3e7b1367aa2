package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"bloomlab/internal/ui/theme"
)

// Likert is a horizontal rating-scale selector (1..Max).
type Likert struct {
	Question string
	Max      int
	LowText  string
	HighText string
	Selected int // 0 means unanswered
	Focused  bool
}

// NewLikert creates a rating selector with Max points.
func NewLikert(question string, max int, lowText, highText string) Likert {
	return Likert{
		Question: question,
		Max:      max,
		LowText:  lowText,
		HighText: highText,
	}
}

// Answered reports whether a rating was chosen.
func (l Likert) Answered() bool {
	return l.Selected >= 1 && l.Selected <= l.Max
}

// Update handles left/right selection and direct digit entry.
func (l Likert) Update(msg tea.Msg) (Likert, tea.Cmd) {
	if !l.Focused {
		return l, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch key := kmsg.String(); key {
	case "left", "h":
		if l.Selected > 1 {
			l.Selected--
		} else if l.Selected == 0 {
			l.Selected = 1
		}
	case "right", "l":
		if l.Selected == 0 {
			l.Selected = 1
		} else if l.Selected < l.Max {
			l.Selected++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			n := int(key[0] - '0')
			if n <= l.Max {
				l.Selected = n
			}
		}
	}
	return l, nil
}

// View renders the question and the scale.
func (l Likert) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text)
	if l.Focused {
		questionStyle = questionStyle.Bold(true)
	}
	s := questionStyle.Render(l.Question) + "\n"

	cells := make([]string, 0, l.Max)
	for i := 1; i <= l.Max; i++ {
		cell := fmt.Sprintf(" %d ", i)
		switch {
		case i == l.Selected:
			cells = append(cells, theme.Selected.Render("["+strings.TrimSpace(cell)+"]"))
		case l.Focused:
			cells = append(cells, theme.Unselected.Render(cell))
		default:
			cells = append(cells, lipgloss.NewStyle().Foreground(theme.TextDim).Render(cell))
		}
	}
	scale := strings.Join(cells, " ")

	if l.LowText != "" || l.HighText != "" {
		anchor := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
		scale = anchor.Render(l.LowText) + "  " + scale + "  " + anchor.Render(l.HighText)
	}
	return s + scale
}
