// Package baseline shows the fixed resting-measurement screen. It accepts
// no input and advances on its own when the dwell elapses.
package baseline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"bloomlab/internal/screen"
	"bloomlab/internal/session"
	"bloomlab/internal/ui/components"
	"bloomlab/internal/ui/layout"
	"bloomlab/internal/ui/theme"
)

// Runner controls the baseline phase.
type Runner interface {
	BeginBaseline() (time.Duration, error)
	FinishBaseline() error
}

// DoneMsg announces baseline completion.
type DoneMsg struct{}

type tickMsg time.Time

// BaselineScreen runs the dwell countdown.
type BaselineScreen struct {
	runner    Runner
	dwell     time.Duration
	remaining time.Duration
	errMsg    string
}

var _ screen.Screen = (*BaselineScreen)(nil)

// New creates the baseline screen.
func New(runner Runner) *BaselineScreen {
	return &BaselineScreen{runner: runner}
}

func (b *BaselineScreen) Title() string {
	return "Baseline"
}

func (b *BaselineScreen) Init() tea.Cmd {
	dwell, err := b.runner.BeginBaseline()
	if err != nil {
		b.errMsg = err.Error()
		return nil
	}
	b.dwell = dwell
	b.remaining = dwell
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (b *BaselineScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	// Key input is deliberately ignored for the whole dwell.
	if _, ok := msg.(tickMsg); !ok {
		return b, nil
	}

	b.remaining -= time.Second
	if b.remaining > 0 {
		return b, tick()
	}

	if err := b.runner.FinishBaseline(); err != nil {
		if errors.Is(err, session.ErrBaselineActive) {
			// Timer drift: the wall clock has not caught up yet.
			return b, tick()
		}
		b.errMsg = err.Error()
		return b, nil
	}
	return b, func() tea.Msg { return DoneMsg{} }
}

func (b *BaselineScreen) View(width, height int) string {
	var sections []string
	sections = append(sections,
		theme.Title.Render("Baseline Measurement"),
		"",
		theme.Body.Render("Please sit still, relax, and look at the center of the screen."),
		"",
		theme.Subtitle.Render(fmt.Sprintf("%d seconds remaining", int(b.remaining.Seconds()))),
		"",
		components.NewProgressBar(b.elapsedFraction(), 48).View(),
	)
	if b.errMsg != "" {
		sections = append(sections, "", theme.Invalid.Render(b.errMsg))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (b *BaselineScreen) elapsedFraction() float64 {
	if b.dwell <= 0 {
		return 0
	}
	return 1 - b.remaining.Seconds()/b.dwell.Seconds()
}

// KeyHints implements screen.KeyHintProvider.
func (b *BaselineScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "", Description: "Please wait"},
	}
}
