// Package briefing explains the question taxonomy before practice begins.
package briefing

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"bloomlab/internal/screen"
	"bloomlab/internal/ui/layout"
	"bloomlab/internal/ui/theme"
)

// DoneMsg announces the participant has finished reading the briefing.
type DoneMsg struct{}

var levels = []struct {
	name string
	desc string
}{
	{"Remember", "recalls facts stated in the text"},
	{"Understand", "asks for facts, definitions, or content answerable from the text"},
	{"Apply", "asks for more detail, or transfers the idea to a similar case"},
	{"Analyze", "probes relationships, causes, or the author's intent"},
	{"Evaluate", "judges or critiques the text using your own knowledge"},
	{"Create", "proposes a new hypothesis or direction of inquiry"},
}

// BriefingScreen shows the six question levels.
type BriefingScreen struct{}

var _ screen.Screen = (*BriefingScreen)(nil)

// New creates the briefing screen.
func New() *BriefingScreen {
	return &BriefingScreen{}
}

func (b *BriefingScreen) Title() string {
	return "About Questions"
}

func (b *BriefingScreen) Init() tea.Cmd {
	return nil
}

func (b *BriefingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return b, func() tea.Msg { return DoneMsg{} }
	}
	return b, nil
}

func (b *BriefingScreen) View(width, height int) string {
	var sections []string
	sections = append(sections,
		theme.Title.Render("Levels of Questions"),
		"",
		theme.Body.Render("Questions about a text can work at different depths."),
		theme.Body.Render("From shallowest to deepest:"),
		"",
	)
	for i, l := range levels {
		line := theme.Selected.Render(l.name) + theme.Body.Render(" — "+l.desc)
		sections = append(sections, theme.Body.Render(strings.Repeat(" ", i))+line)
	}
	sections = append(sections,
		"",
		theme.Body.Render("In the next part you will write a question about each passage."),
		theme.Body.Render("There are no right or wrong questions."),
		"",
		theme.Hint.Render("press enter to try two practice passages"),
	)

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// KeyHints implements screen.KeyHintProvider.
func (b *BriefingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
