// Package trialrun drives a single trial through its stages: passage
// display, question entry, feedback, survey, and question revision. The
// same screen serves both the practice and the main block.
package trialrun

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"bloomlab/internal/catalog"
	"bloomlab/internal/feedback"
	"bloomlab/internal/screen"
	"bloomlab/internal/session"
	"bloomlab/internal/trial"
	"bloomlab/internal/ui/components"
	"bloomlab/internal/ui/layout"
	"bloomlab/internal/ui/theme"
)

// Controller is the slice of the session controller this screen drives.
type Controller interface {
	Phase() session.Phase
	Ordinal() int
	TrialCount() int
	Stage() trial.Stage
	CurrentPassage() (catalog.Passage, bool)
	CurrentQuestion() string
	CurrentFeedback() (feedback.Level, string, bool)
	AcknowledgeRead() error
	CheckQuestion(text string) (string, error)
	GenerateFeedback(ctx context.Context, question string) (*feedback.Output, error)
	ApplyQuestion(question string, out *feedback.Output) error
	AcknowledgeFeedback() error
	SubmitSurvey(curiosity, relatedness int, accept bool) error
	SetComment(cp trial.Checkpoint, text string)
	NoteEditFocus()
	SubmitEdit(text string) error
}

// PracticeDoneMsg announces the last practice trial finished.
type PracticeDoneMsg struct{}

// MainDoneMsg announces the last main trial finished.
type MainDoneMsg struct{}

// ExportPartialMsg requests a mid-run export of the results so far.
type ExportPartialMsg struct{}

// generatedMsg carries a finished generation round back to the handler
// goroutine; all session-state mutation happens there, never in the command.
type generatedMsg struct {
	question string
	out      *feedback.Output
	err      error
}

// Survey focus slots, cycled with tab.
const (
	focusCuriosity = iota
	focusRelatedness
	focusAccept
	focusComment
	surveyFocusSlots
)

var levelTitles = map[feedback.Level]string{
	feedback.LevelRemember:   "Remember",
	feedback.LevelUnderstand: "Understand",
	feedback.LevelApply:      "Apply",
	feedback.LevelAnalyze:    "Analyze",
	feedback.LevelEvaluate:   "Evaluate",
	feedback.LevelCreate:     "Create",
}

// TrialScreen renders whichever stage the in-flight trial is in.
type TrialScreen struct {
	ctrl Controller

	question        components.TextArea
	questionComment components.TextInput
	questionOnNote  bool

	feedbackComment components.TextInput

	edit components.TextArea

	curiosity   components.Likert
	relatedness components.Likert
	accept      int // -1 unset, 0 yes, 1 no
	comment     components.TextInput
	focus       int

	editNoted   bool
	editComment components.TextInput
	editOnNote  bool

	generating bool
	errMsg     string
}

var _ screen.Screen = (*TrialScreen)(nil)

// New creates the trial screen for the controller's current trial.
func New(ctrl Controller) *TrialScreen {
	t := &TrialScreen{ctrl: ctrl}
	t.resetTrialState()
	return t
}

func (t *TrialScreen) resetTrialState() {
	t.question = components.NewTextArea("Type your question about the passage...", 70, 5)
	t.questionComment = components.NewTextInput("optional note", false, 200)
	t.questionOnNote = false
	t.feedbackComment = components.NewTextInput("optional note", false, 200)
	t.edit = components.NewTextArea("", 70, 5)
	t.curiosity = components.NewLikert(
		"The suggested question makes me curious.", 7, "not at all", "very much")
	t.relatedness = components.NewLikert(
		"The suggestion is related to my own question.", 7, "not at all", "very much")
	t.curiosity.Focused = true
	t.relatedness.Focused = false
	t.accept = -1
	t.comment = components.NewTextInput("optional note", false, 200)
	t.focus = focusCuriosity
	t.editNoted = false
	t.editComment = components.NewTextInput("optional note", false, 200)
	t.editOnNote = false
	t.errMsg = ""
}

func (t *TrialScreen) Title() string {
	if t.ctrl.Phase() == session.PhasePractice {
		return "Practice"
	}
	return "Reading & Questioning"
}

func (t *TrialScreen) Init() tea.Cmd {
	return t.question.Init()
}

func (t *TrialScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if gm, ok := msg.(generatedMsg); ok {
		t.generating = false
		if gm.err != nil {
			t.errMsg = userMessage(gm.err)
			return t, nil
		}
		if err := t.ctrl.ApplyQuestion(gm.question, gm.out); err != nil {
			t.errMsg = userMessage(err)
			return t, nil
		}
		t.ctrl.SetComment(trial.CheckpointQuestion, t.questionComment.Value())
		return t, nil
	}
	if t.generating {
		return t, nil
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if kmsg.String() == "ctrl+e" && t.ctrl.Phase() == session.PhaseMain {
			return t, func() tea.Msg { return ExportPartialMsg{} }
		}
	}

	switch t.ctrl.Stage() {
	case trial.StageShowPassage:
		return t.updatePassage(msg)
	case trial.StageAskQuestion:
		return t.updateQuestion(msg)
	case trial.StageShowFeedback:
		return t.updateFeedback(msg)
	case trial.StageSurvey:
		return t.updateSurvey(msg)
	case trial.StageEditQuestion:
		return t.updateEdit(msg)
	}
	return t, nil
}

func (t *TrialScreen) updatePassage(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		if err := t.ctrl.AcknowledgeRead(); err != nil {
			t.errMsg = userMessage(err)
			return t, nil
		}
		t.errMsg = ""
		return t, t.question.Init()
	}
	return t, nil
}

func (t *TrialScreen) updateQuestion(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "ctrl+d":
			trimmed, err := t.ctrl.CheckQuestion(t.question.Value())
			if err != nil {
				t.errMsg = userMessage(err)
				return t, nil
			}
			t.generating = true
			t.errMsg = ""
			// Only the generator runs off the handler goroutine; the
			// result is applied when generatedMsg comes back.
			return t, func() tea.Msg {
				out, err := t.ctrl.GenerateFeedback(context.Background(), trimmed)
				return generatedMsg{question: trimmed, out: out, err: err}
			}
		case "tab":
			t.questionOnNote = !t.questionOnNote
			return t, nil
		}
	}
	var cmd tea.Cmd
	if t.questionOnNote {
		t.questionComment, cmd = t.questionComment.Update(msg)
	} else {
		t.question, cmd = t.question.Update(msg)
	}
	return t, cmd
}

func (t *TrialScreen) updateFeedback(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		t.ctrl.SetComment(trial.CheckpointFeedback, t.feedbackComment.Value())
		if err := t.ctrl.AcknowledgeFeedback(); err != nil {
			t.errMsg = userMessage(err)
			return t, nil
		}
		t.errMsg = ""
		return t, nil
	}
	var cmd tea.Cmd
	t.feedbackComment, cmd = t.feedbackComment.Update(msg)
	return t, cmd
}

func (t *TrialScreen) updateSurvey(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, isKey := msg.(tea.KeyPressMsg)
	if isKey {
		switch kmsg.String() {
		case "tab":
			t.setSurveyFocus((t.focus + 1) % surveyFocusSlots)
			return t, nil
		case "shift+tab":
			t.setSurveyFocus((t.focus + surveyFocusSlots - 1) % surveyFocusSlots)
			return t, nil
		case "enter":
			return t.submitSurvey()
		}
	}

	var cmd tea.Cmd
	switch t.focus {
	case focusCuriosity:
		t.curiosity, cmd = t.curiosity.Update(msg)
	case focusRelatedness:
		t.relatedness, cmd = t.relatedness.Update(msg)
	case focusAccept:
		if isKey {
			switch kmsg.String() {
			case "left", "h", "y":
				t.accept = 0
			case "right", "l", "n":
				t.accept = 1
			}
		}
	case focusComment:
		t.comment, cmd = t.comment.Update(msg)
	}
	return t, cmd
}

func (t *TrialScreen) setSurveyFocus(slot int) {
	t.focus = slot
	t.curiosity.Focused = slot == focusCuriosity
	t.relatedness.Focused = slot == focusRelatedness
}

func (t *TrialScreen) submitSurvey() (screen.Screen, tea.Cmd) {
	if t.accept < 0 {
		t.errMsg = "Please choose whether you accept the suggestion."
		return t, nil
	}
	t.ctrl.SetComment(trial.CheckpointSurvey, t.comment.Value())
	if err := t.ctrl.SubmitSurvey(t.curiosity.Selected, t.relatedness.Selected, t.accept == 0); err != nil {
		t.errMsg = userMessage(err)
		return t, nil
	}
	t.errMsg = ""
	t.edit.SetValue(t.ctrl.CurrentQuestion())
	return t, t.edit.Init()
}

func (t *TrialScreen) updateEdit(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "ctrl+d":
			return t.submitEdit()
		case "tab":
			t.editOnNote = !t.editOnNote
			return t, nil
		}
		if !t.editOnNote && !t.editNoted {
			t.editNoted = true
			t.ctrl.NoteEditFocus()
		}
	}
	var cmd tea.Cmd
	if t.editOnNote {
		t.editComment, cmd = t.editComment.Update(msg)
	} else {
		t.edit, cmd = t.edit.Update(msg)
	}
	return t, cmd
}

func (t *TrialScreen) submitEdit() (screen.Screen, tea.Cmd) {
	t.ctrl.SetComment(trial.CheckpointEdit, t.editComment.Value())
	if err := t.ctrl.SubmitEdit(t.edit.Value()); err != nil {
		t.errMsg = userMessage(err)
		return t, nil
	}

	switch t.ctrl.Phase() {
	case session.PhasePracticeDone:
		return t, func() tea.Msg { return PracticeDoneMsg{} }
	case session.PhaseCompleted:
		return t, func() tea.Msg { return MainDoneMsg{} }
	}
	t.resetTrialState()
	return t, nil
}

func (t *TrialScreen) View(width, height int) string {
	var body string
	switch t.ctrl.Stage() {
	case trial.StageShowPassage:
		body = t.viewPassage()
	case trial.StageAskQuestion:
		body = t.viewQuestion()
	case trial.StageShowFeedback:
		body = t.viewFeedback()
	case trial.StageSurvey:
		body = t.viewSurvey()
	case trial.StageEditQuestion:
		body = t.viewEdit()
	}

	sections := []string{
		theme.Subtitle.Render(fmt.Sprintf("Passage %d of %d", t.ctrl.Ordinal()+1, t.ctrl.TrialCount())),
		"",
		body,
	}
	if t.errMsg != "" {
		sections = append(sections, "", theme.Invalid.Render(t.errMsg))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (t *TrialScreen) viewPassage() string {
	p, ok := t.ctrl.CurrentPassage()
	if !ok {
		return theme.Body.Render("No passage available.")
	}
	return strings.Join([]string{
		theme.Title.Render(string(p.Category)),
		"",
		theme.Passage.Width(72).Render(p.Text),
		"",
		theme.Hint.Render("read carefully, then press enter"),
	}, "\n")
}

func (t *TrialScreen) viewQuestion() string {
	if t.generating {
		return strings.Join([]string{
			theme.Title.Render("Your Question"),
			"",
			theme.Body.Render("Generating feedback..."),
		}, "\n")
	}
	noteLabel := theme.Body.Render("Note (optional):")
	if t.questionOnNote {
		noteLabel = theme.Body.Bold(true).Render("Note (optional):")
	}
	return strings.Join([]string{
		theme.Title.Render("Your Question"),
		"",
		theme.Body.Render("Write one question that came to mind while reading."),
		"",
		t.question.View(),
		"",
		noteLabel,
		t.questionComment.View(),
		"",
		theme.Hint.Render("tab to switch fields, ctrl+d to submit"),
	}, "\n")
}

func (t *TrialScreen) viewFeedback() string {
	level, suggestion, ok := t.ctrl.CurrentFeedback()
	if !ok {
		return theme.Body.Render("Feedback not available yet.")
	}
	return strings.Join([]string{
		theme.Title.Render("Feedback"),
		"",
		theme.Body.Render("Your question works at the level: ") + theme.Selected.Render(levelTitles[level]),
		"",
		theme.Body.Render("A suggestion for you:"),
		theme.Card.Width(72).Render(suggestion),
		"",
		theme.Body.Render("Anything to note? (optional)"),
		t.feedbackComment.View(),
		"",
		theme.Hint.Render("press enter to continue"),
	}, "\n")
}

func (t *TrialScreen) viewSurvey() string {
	yes := theme.Unselected.Render(" yes ")
	no := theme.Unselected.Render(" no ")
	if t.accept == 0 {
		yes = theme.Selected.Render("[yes]")
	}
	if t.accept == 1 {
		no = theme.Selected.Render("[no]")
	}
	acceptLabel := theme.Body.Render("Would you adopt the suggestion?")
	if t.focus == focusAccept {
		acceptLabel = theme.Body.Bold(true).Render("Would you adopt the suggestion?")
	}

	return strings.Join([]string{
		theme.Title.Render("About the Suggestion"),
		"",
		t.curiosity.View(),
		"",
		t.relatedness.View(),
		"",
		acceptLabel + "  " + yes + " " + no,
		"",
		theme.Body.Render("Anything to note? (optional)"),
		t.comment.View(),
		"",
		theme.Hint.Render("tab to move, enter to submit"),
	}, "\n")
}

func (t *TrialScreen) viewEdit() string {
	target := t.edit.View()
	noteLabel := theme.Body.Render("Note (optional):")
	if t.editOnNote {
		noteLabel = theme.Body.Bold(true).Render("Note (optional):")
	}
	return strings.Join([]string{
		theme.Title.Render("Revise Your Question"),
		"",
		theme.Body.Render("Rework your question however you like. You may use the"),
		theme.Body.Render("suggestion, combine it with your own, or keep yours as is."),
		"",
		target,
		"",
		noteLabel,
		t.editComment.View(),
		"",
		theme.Hint.Render("ctrl+d to finish this passage"),
	}, "\n")
}

// userMessage strips internal wrapping from validation failures so the
// participant sees only the actionable part.
func userMessage(err error) string {
	var verr *trial.ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return err.Error()
}

// KeyHints implements screen.KeyHintProvider.
func (t *TrialScreen) KeyHints() []layout.KeyHint {
	switch t.ctrl.Stage() {
	case trial.StageAskQuestion, trial.StageEditQuestion:
		return []layout.KeyHint{
			{Key: "Ctrl+D", Description: "Submit"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case trial.StageSurvey:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
