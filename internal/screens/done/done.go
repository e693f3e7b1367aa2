// Package done shows the end-of-session screen with the export locations.
package done

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"bloomlab/internal/screen"
	"bloomlab/internal/ui/layout"
	"bloomlab/internal/ui/theme"
)

// DoneScreen thanks the participant and lists the written files.
type DoneScreen struct {
	exports []string
}

var _ screen.Screen = (*DoneScreen)(nil)

// New creates the completion screen.
func New(exports []string) *DoneScreen {
	return &DoneScreen{exports: exports}
}

func (d *DoneScreen) Title() string {
	return "Session Complete"
}

func (d *DoneScreen) Init() tea.Cmd {
	return nil
}

func (d *DoneScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return d, tea.Quit
	}
	return d, nil
}

func (d *DoneScreen) View(width, height int) string {
	sections := []string{
		theme.Valid.Render("All done!"),
		"",
		theme.Body.Render("Thank you for taking part in this session."),
		theme.Body.Render("Please let the experimenter know you have finished."),
	}
	if len(d.exports) > 0 {
		sections = append(sections, "", theme.Subtitle.Render("Saved files"))
		for _, p := range d.exports {
			sections = append(sections, theme.Hint.Render(p))
		}
	}
	sections = append(sections, "", theme.Hint.Render("press enter to exit"))

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// KeyHints implements screen.KeyHintProvider.
func (d *DoneScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Exit"},
	}
}
