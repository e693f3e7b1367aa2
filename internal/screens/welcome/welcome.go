// Package welcome collects the participant id and starts the run.
package welcome

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"bloomlab/internal/screen"
	"bloomlab/internal/ui/components"
	"bloomlab/internal/ui/layout"
	"bloomlab/internal/ui/theme"
)

// StartMsg announces the entered participant id.
type StartMsg struct {
	ParticipantID string
}

// WelcomeScreen asks for the participant id.
type WelcomeScreen struct {
	input  components.TextInput
	errMsg string
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates the welcome screen.
func New() *WelcomeScreen {
	return &WelcomeScreen{
		input: components.NewTextInput("participant id (e.g. p042)", false, 32),
	}
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return w.input.Init()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		id := strings.TrimSpace(w.input.Value())
		if id == "" {
			w.errMsg = "Please enter a participant id."
			return w, nil
		}
		return w, func() tea.Msg { return StartMsg{ParticipantID: id} }
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections,
		theme.Title.Render("Reading & Questioning Study"),
		"",
		theme.Body.Render("You will read short passages, write a question about each one,"),
		theme.Body.Render("receive a suggested revision, and record your final question."),
		"",
		theme.Body.Render("Enter your participant id to begin:"),
		"",
		w.input.View(),
	)
	if w.errMsg != "" {
		sections = append(sections, "", theme.Invalid.Render(w.errMsg))
	}
	sections = append(sections, "", theme.Hint.Render("press enter to continue"))

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// KeyHints implements screen.KeyHintProvider.
func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
