// Package summary shows the checkpoint between practice and the main block.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"bloomlab/internal/screen"
	"bloomlab/internal/ui/components"
	"bloomlab/internal/ui/layout"
	"bloomlab/internal/ui/theme"
)

// StartMainMsg announces the participant is ready for the main block.
type StartMainMsg struct{}

// SummaryScreen marks the end of practice.
type SummaryScreen struct {
	mainTrials int
	exportPath string
	begin      components.Button
}

var _ screen.Screen = (*SummaryScreen)(nil)

// New creates the practice checkpoint screen. exportPath may be empty when
// the practice export failed.
func New(mainTrials int, exportPath string) *SummaryScreen {
	return &SummaryScreen{
		mainTrials: mainTrials,
		exportPath: exportPath,
		begin: components.NewButton("Begin main block", func() tea.Cmd {
			return func() tea.Msg { return StartMainMsg{} }
		}),
	}
}

func (s *SummaryScreen) Title() string {
	return "Practice Complete"
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.begin, cmd = s.begin.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	sections := []string{
		theme.Title.Render("Practice Complete"),
		"",
		theme.Body.Render("You have finished both practice passages."),
		theme.Body.Render(fmt.Sprintf("The main part has %d passages and works the same way.", s.mainTrials)),
		"",
		theme.Body.Render("Take a short break if you need one."),
	}
	if s.exportPath != "" {
		sections = append(sections, "",
			theme.Hint.Render("practice responses saved to "+s.exportPath))
	}
	sections = append(sections, "",
		s.begin.View(),
		"",
		theme.Hint.Render("press enter when you are ready"))

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// KeyHints implements screen.KeyHintProvider.
func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Begin main block"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
