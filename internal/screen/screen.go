// Package screen defines the contract every run screen implements. Screens
// are the blocks of a session laid end to end; the router only ever moves
// forward through them.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"bloomlab/internal/ui/layout"
)

// Screen is one full-window step of the run.
type Screen interface {
	// Init runs when the screen becomes the active one.
	Init() tea.Cmd

	// Update handles one message and returns the screen to show next.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area between the header and the footer.
	View(width, height int) string

	// Title is shown in the header bar.
	Title() string
}

// KeyHintProvider lets a screen publish the key hints for the footer.
// Screens without it get the default quit-only hint.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
