package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"bloomlab/internal/screen"
)

type fakeScreen struct {
	name        string
	initCalled  bool
	lastMessage tea.Msg
}

func (f *fakeScreen) Init() tea.Cmd {
	f.initCalled = true
	return nil
}

func (f *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	f.lastMessage = msg
	return f, nil
}

func (f *fakeScreen) View(width, height int) string { return f.name }

func (f *fakeScreen) Title() string { return f.name }

func TestActiveIsInitialScreen(t *testing.T) {
	s := &fakeScreen{name: "welcome"}
	r := New(s)
	if r.Active() != s {
		t.Error("active screen is not the initial screen")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &fakeScreen{name: "welcome"}
	s2 := &fakeScreen{name: "pretest"}
	r := New(s1)

	r.Update(ReplaceScreenMsg{Screen: s2})
	if r.Active() != s2 {
		t.Error("screen not replaced")
	}
	if !s2.initCalled {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	s := &fakeScreen{name: "welcome"}
	r := New(s)

	msg := tea.WindowSizeMsg{Width: 80, Height: 24}
	r.Update(msg)
	if s.lastMessage != tea.Msg(msg) {
		t.Error("message not forwarded to active screen")
	}
}

func TestViewRendersActive(t *testing.T) {
	r := New(&fakeScreen{name: "welcome"})
	if r.View(80, 24) != "welcome" {
		t.Errorf("view = %q", r.View(80, 24))
	}
}
