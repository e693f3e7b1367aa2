package components

import (
	"strings"

	"bloomlab/internal/ui/theme"
)

// ProgressBar is an unlabeled horizontal fill, used for the baseline dwell.
type ProgressBar struct {
	Fraction float64
	Width    int
}

// NewProgressBar creates a bar of the given width, filled to fraction
// (clamped to [0, 1]).
func NewProgressBar(fraction float64, width int) ProgressBar {
	return ProgressBar{Fraction: fraction, Width: width}
}

// View renders the bar.
func (p ProgressBar) View() string {
	width := p.Width
	if width < 4 {
		width = 4
	}

	filled := int(float64(width) * p.Fraction)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled))
}
