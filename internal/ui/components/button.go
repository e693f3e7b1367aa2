package components

import (
	tea "charm.land/bubbletea/v2"

	"bloomlab/internal/ui/theme"
)

// Button is the advance control of a checkpoint screen. It fires on enter;
// there is no inactive state because a checkpoint has exactly one way
// forward.
type Button struct {
	Label   string
	OnPress func() tea.Cmd
}

// NewButton creates a button that runs onPress when enter is pressed.
func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{Label: label, OnPress: onPress}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if kmsg.String() == "enter" && b.OnPress != nil {
			return b, b.OnPress()
		}
	}
	return b, nil
}

// View renders the button.
func (b Button) View() string {
	return theme.ButtonActive.Render("[ " + b.Label + " ]")
}
