package trialrun

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"bloomlab/internal/catalog"
	"bloomlab/internal/feedback"
	"bloomlab/internal/session"
	"bloomlab/internal/trial"
)

// fakeCtrl scripts the controller surface the screen drives.
type fakeCtrl struct {
	phase   session.Phase
	stage   trial.Stage
	ordinal int
	total   int

	genErr        error
	generateCalls int
	question      string
	curiosity     int
	related       int
	accept        bool
	edited        string
	comments      map[trial.Checkpoint]string
	focusNotes    int
}

func newFakeCtrl(phase session.Phase) *fakeCtrl {
	return &fakeCtrl{
		phase:    phase,
		stage:    trial.StageShowPassage,
		total:    2,
		comments: make(map[trial.Checkpoint]string),
	}
}

func (f *fakeCtrl) Phase() session.Phase { return f.phase }
func (f *fakeCtrl) Ordinal() int         { return f.ordinal }
func (f *fakeCtrl) TrialCount() int      { return f.total }
func (f *fakeCtrl) Stage() trial.Stage   { return f.stage }

func (f *fakeCtrl) CurrentPassage() (catalog.Passage, bool) {
	return catalog.Passage{Index: 1, Category: "history", Text: "A short passage."}, true
}

func (f *fakeCtrl) CurrentQuestion() string { return f.question }

func (f *fakeCtrl) CurrentFeedback() (feedback.Level, string, bool) {
	if f.question == "" {
		return "", "", false
	}
	return feedback.LevelAnalyze, "What caused this?", true
}

func (f *fakeCtrl) AcknowledgeRead() error {
	f.stage = trial.StageAskQuestion
	return nil
}

func (f *fakeCtrl) CheckQuestion(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "?" {
		return "", &trial.ValidationError{Field: "question", Reason: "enter a question before continuing"}
	}
	return trimmed, nil
}

func (f *fakeCtrl) GenerateFeedback(_ context.Context, question string) (*feedback.Output, error) {
	f.generateCalls++
	if f.genErr != nil {
		return nil, f.genErr
	}
	return &feedback.Output{Level: feedback.LevelAnalyze, Suggestion: "What caused this?"}, nil
}

func (f *fakeCtrl) ApplyQuestion(question string, out *feedback.Output) error {
	f.question = question
	f.stage = trial.StageShowFeedback
	return nil
}

func (f *fakeCtrl) AcknowledgeFeedback() error {
	f.stage = trial.StageSurvey
	return nil
}

func (f *fakeCtrl) SubmitSurvey(curiosity, relatedness int, accept bool) error {
	f.curiosity = curiosity
	f.related = relatedness
	f.accept = accept
	f.stage = trial.StageEditQuestion
	return nil
}

func (f *fakeCtrl) SetComment(cp trial.Checkpoint, text string) {
	if strings.TrimSpace(text) != "" {
		f.comments[cp] = text
	}
}

func (f *fakeCtrl) NoteEditFocus() { f.focusNotes++ }

func (f *fakeCtrl) SubmitEdit(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &trial.ValidationError{Field: "edited question", Reason: "enter your revised question before finishing"}
	}
	f.edited = trimmed
	f.stage = trial.StageComplete
	switch f.phase {
	case session.PhasePractice:
		f.phase = session.PhasePracticeDone
	case session.PhaseMain:
		f.phase = session.PhaseCompleted
	}
	return nil
}

func enter() tea.Msg { return tea.KeyPressMsg{Code: tea.KeyEnter} }
func ctrlD() tea.Msg { return tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl} }

// run a submitted-question round up to the feedback stage.
func submitQuestion(t *testing.T, s *TrialScreen, ctrl *fakeCtrl, text string) {
	t.Helper()
	s.Update(enter()) // acknowledge passage
	if ctrl.stage != trial.StageAskQuestion {
		t.Fatalf("expected ask_question after enter, got %s", ctrl.stage)
	}
	s.question.SetValue(text)
	_, cmd := s.Update(ctrlD())
	if cmd == nil {
		t.Fatal("ctrl+d should produce a submission command")
	}
	s.Update(cmd())
}

func TestFullStageWalk(t *testing.T) {
	ctrl := newFakeCtrl(session.PhaseMain)
	s := New(ctrl)

	submitQuestion(t, s, ctrl, "Why did it happen?")
	if ctrl.stage != trial.StageShowFeedback {
		t.Fatalf("expected show_feedback, got %s", ctrl.stage)
	}
	if s.generating {
		t.Error("generating flag should clear after the result arrives")
	}

	s.Update(enter()) // acknowledge feedback
	if ctrl.stage != trial.StageSurvey {
		t.Fatalf("expected survey, got %s", ctrl.stage)
	}

	s.curiosity.Selected = 5
	s.relatedness.Selected = 3
	s.accept = 0
	s.Update(enter())
	if ctrl.stage != trial.StageEditQuestion {
		t.Fatalf("expected edit_question, got %s", ctrl.stage)
	}
	if ctrl.curiosity != 5 || ctrl.related != 3 || !ctrl.accept {
		t.Errorf("survey answers not forwarded: %+v", ctrl)
	}

	// The edit box is prefilled with the submitted question.
	if s.edit.Value() != "Why did it happen?" {
		t.Errorf("edit prefill = %q", s.edit.Value())
	}

	_, cmd := s.Update(ctrlD())
	if cmd == nil {
		t.Fatal("expected a completion command")
	}
	msg := cmd()
	if _, ok := msg.(MainDoneMsg); !ok {
		t.Fatalf("expected MainDoneMsg, got %T", msg)
	}
	if ctrl.edited != "Why did it happen?" {
		t.Errorf("edited question = %q", ctrl.edited)
	}
}

func TestPracticeCompletionSignal(t *testing.T) {
	ctrl := newFakeCtrl(session.PhasePractice)
	s := New(ctrl)

	submitQuestion(t, s, ctrl, "What is this about?")
	s.Update(enter())
	s.curiosity.Selected = 4
	s.relatedness.Selected = 4
	s.accept = 1
	s.Update(enter())

	_, cmd := s.Update(ctrlD())
	if cmd == nil {
		t.Fatal("expected a completion command")
	}
	if _, ok := cmd().(PracticeDoneMsg); !ok {
		t.Fatalf("expected PracticeDoneMsg, got %T", cmd())
	}
	if ctrl.accept {
		t.Error("accept=no should forward as false")
	}
}

func TestValidationKeepsTypedText(t *testing.T) {
	ctrl := newFakeCtrl(session.PhaseMain)
	s := New(ctrl)
	s.Update(enter())

	s.question.SetValue("   ?   ")
	_, cmd := s.Update(ctrlD())
	if cmd != nil {
		t.Fatal("an invalid question must not start generation")
	}

	if ctrl.stage != trial.StageAskQuestion {
		t.Fatalf("invalid question must not advance, got %s", ctrl.stage)
	}
	if ctrl.generateCalls != 0 {
		t.Errorf("generator should not run for an invalid question, ran %d times", ctrl.generateCalls)
	}
	if s.errMsg == "" {
		t.Error("expected a visible validation message")
	}
	if s.question.Value() != "   ?   " {
		t.Errorf("typed text should survive validation, got %q", s.question.Value())
	}
}

func TestCommandOnlyGeneratesStateAppliedInUpdate(t *testing.T) {
	ctrl := newFakeCtrl(session.PhaseMain)
	s := New(ctrl)
	s.Update(enter())

	s.question.SetValue("Why did it happen?")
	_, cmd := s.Update(ctrlD())
	if cmd == nil {
		t.Fatal("expected a generation command")
	}

	// Running the command stands in for the command goroutine: it may call
	// the generator but must leave the trial state untouched.
	msg := cmd()
	if ctrl.generateCalls != 1 {
		t.Fatalf("generator calls = %d, want 1", ctrl.generateCalls)
	}
	if ctrl.stage != trial.StageAskQuestion {
		t.Fatalf("stage mutated off the handler goroutine: %s", ctrl.stage)
	}
	if ctrl.question != "" {
		t.Fatalf("question recorded off the handler goroutine: %q", ctrl.question)
	}

	s.Update(msg)
	if ctrl.stage != trial.StageShowFeedback {
		t.Fatalf("expected show_feedback after the result is applied, got %s", ctrl.stage)
	}
	if ctrl.question != "Why did it happen?" {
		t.Errorf("question = %q", ctrl.question)
	}
}

func TestQuestionAndFeedbackNotesRecorded(t *testing.T) {
	ctrl := newFakeCtrl(session.PhaseMain)
	s := New(ctrl)
	s.Update(enter())

	s.question.SetValue("How does it work?")
	s.questionComment.Model.SetValue("typed fast here")
	_, cmd := s.Update(ctrlD())
	s.Update(cmd())
	if got := ctrl.comments[trial.CheckpointQuestion]; got != "typed fast here" {
		t.Errorf("question note = %q", got)
	}

	s.feedbackComment.Model.SetValue("suggestion felt odd")
	s.Update(enter())
	if ctrl.stage != trial.StageSurvey {
		t.Fatalf("expected survey, got %s", ctrl.stage)
	}
	if got := ctrl.comments[trial.CheckpointFeedback]; got != "suggestion felt odd" {
		t.Errorf("feedback note = %q", got)
	}
}

func TestSurveyRequiresAcceptChoice(t *testing.T) {
	ctrl := newFakeCtrl(session.PhaseMain)
	s := New(ctrl)
	submitQuestion(t, s, ctrl, "Why?  Because.")
	s.Update(enter())

	s.curiosity.Selected = 2
	s.relatedness.Selected = 2
	s.Update(enter())
	if ctrl.stage != trial.StageSurvey {
		t.Fatal("survey must not submit without the accept choice")
	}
	if s.errMsg == "" {
		t.Error("expected a message about the accept choice")
	}
}

func TestInputIgnoredWhileGenerating(t *testing.T) {
	ctrl := newFakeCtrl(session.PhaseMain)
	s := New(ctrl)
	s.Update(enter())

	s.question.SetValue("Why though?")
	_, cmd := s.Update(ctrlD())
	if !s.generating {
		t.Fatal("expected generating state after submit")
	}

	// A second submit while waiting must be dropped.
	_, second := s.Update(ctrlD())
	if second != nil {
		t.Error("input during generation should be ignored")
	}

	s.Update(cmd())
	if s.generating {
		t.Error("result should clear the generating state")
	}
}

func TestEditFocusNotedOnce(t *testing.T) {
	ctrl := newFakeCtrl(session.PhaseMain)
	s := New(ctrl)
	submitQuestion(t, s, ctrl, "How does it work?")
	s.Update(enter())
	s.curiosity.Selected = 6
	s.relatedness.Selected = 6
	s.accept = 0
	s.Update(enter())

	s.Update(tea.KeyPressMsg{Code: 'a'})
	s.Update(tea.KeyPressMsg{Code: 'b'})
	if ctrl.focusNotes != 1 {
		t.Errorf("edit focus should be noted exactly once, got %d", ctrl.focusNotes)
	}
}

func TestPartialExportKeyOnlyInMain(t *testing.T) {
	ctrl := newFakeCtrl(session.PhaseMain)
	s := New(ctrl)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("ctrl+e should request an export during main")
	}
	if _, ok := cmd().(ExportPartialMsg); !ok {
		t.Fatalf("expected ExportPartialMsg, got %T", cmd())
	}

	practice := New(newFakeCtrl(session.PhasePractice))
	_, cmd = practice.Update(tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl})
	if cmd != nil {
		t.Error("ctrl+e should do nothing during practice")
	}
}
