package trial

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bloomlab/internal/assign"
	"bloomlab/internal/catalog"
	"bloomlab/internal/feedback"
)

// Generator produces the classification and suggestion for a submitted
// question. feedback.Service satisfies it; tests substitute a stub.
type Generator interface {
	Generate(ctx context.Context, cond assign.Condition, passage, question string) (*feedback.Output, error)
}

// Observer receives stage boundary notifications. The session controller
// uses it to emit markers and event-log entries at every edge.
type Observer interface {
	StageEntered(stage Stage)
	StageExited(stage Stage, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) StageEntered(Stage) {}

func (nopObserver) StageExited(Stage, time.Duration) {}

// Option configures a Machine.
type Option func(*Machine)

// WithObserver attaches a stage boundary observer.
func WithObserver(obs Observer) Option {
	return func(m *Machine) { m.obs = obs }
}

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Machine) { m.clock = clock }
}

// Machine advances one trial through its stage sequence.
type Machine struct {
	phase     string
	ordinal   int
	passage   catalog.Passage
	condition assign.Condition
	gen       Generator

	obs   Observer
	clock func() time.Time

	stage     Stage
	enteredAt time.Time
	durations map[Stage]time.Duration

	// rec is the in-flight scratch holder. It is cleared wholesale when the
	// trial completes; partial data never reaches the permanent log.
	rec *Record
}

// NewMachine starts a full trial at show_passage.
func NewMachine(phase string, ordinal int, passage catalog.Passage, cond assign.Condition, gen Generator, opts ...Option) *Machine {
	m := &Machine{
		phase:     phase,
		ordinal:   ordinal,
		passage:   passage,
		condition: cond,
		gen:       gen,
		obs:       nopObserver{},
		clock:     time.Now,
		durations: make(map[Stage]time.Duration),
		rec: &Record{
			Phase:        phase,
			Ordinal:      ordinal,
			PassageIndex: passage.Index,
			Category:     passage.Category,
			Condition:    cond,
			Comments:     make(map[Checkpoint]string),
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.enter(StageShowPassage)
	return m
}

// NewBaselineMachine starts the reduced baseline path. It has no passage,
// condition, or record; it exists so baseline dwell shares the same stage
// edges and observer wiring as real trials.
func NewBaselineMachine(opts ...Option) *Machine {
	m := &Machine{
		phase:     "baseline",
		obs:       nopObserver{},
		clock:     time.Now,
		durations: make(map[Stage]time.Duration),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.enter(StageBaseline)
	return m
}

// Stage returns the current stage.
func (m *Machine) Stage() Stage {
	return m.stage
}

// Done reports whether the trial has completed.
func (m *Machine) Done() bool {
	return m.stage == StageComplete
}

// AcknowledgeRead advances past the passage display.
func (m *Machine) AcknowledgeRead() error {
	return m.advance(ActionAcknowledgeRead)
}

// CheckQuestion validates the participant's question without mutating the
// machine: stage must accept a submission and the trimmed text must be a
// real question. Returns the trimmed text.
func (m *Machine) CheckQuestion(text string) (string, error) {
	if _, err := next(m.stage, ActionSubmitQuestion); err != nil {
		return "", err
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "?" {
		return "", &ValidationError{Field: "question", Reason: "enter a question before continuing"}
	}
	return trimmed, nil
}

// GenerateFeedback runs the generator for this trial's passage and
// condition. It reads only fields fixed at construction, so callers may run
// it off the handler goroutine while the UI keeps rendering.
func (m *Machine) GenerateFeedback(ctx context.Context, question string) (*feedback.Output, error) {
	out, err := m.gen.Generate(ctx, m.condition, m.passage.Text, question)
	if err != nil {
		return nil, fmt.Errorf("trial: feedback generation: %w", err)
	}
	return out, nil
}

// ApplyQuestion records a generated feedback round and advances to the
// feedback display. Must run on the handler goroutine.
func (m *Machine) ApplyQuestion(question string, out *feedback.Output) error {
	if _, err := next(m.stage, ActionSubmitQuestion); err != nil {
		return err
	}

	m.rec.Question = question
	m.rec.Level = out.Level
	m.rec.Suggestion = out.Suggestion
	m.rec.SuggestionSource = out.Source
	m.rec.SuggestionAttempts = out.Attempts
	m.rec.Metrics = out.Metrics

	return m.advance(ActionSubmitQuestion)
}

// SubmitQuestion is the synchronous composition of CheckQuestion,
// GenerateFeedback, and ApplyQuestion. A validation failure keeps the stage
// and the typed text intact.
func (m *Machine) SubmitQuestion(ctx context.Context, text string) error {
	trimmed, err := m.CheckQuestion(text)
	if err != nil {
		return err
	}
	out, err := m.GenerateFeedback(ctx, trimmed)
	if err != nil {
		return err
	}
	return m.ApplyQuestion(trimmed, out)
}

// AcknowledgeFeedback advances past the feedback display.
func (m *Machine) AcknowledgeFeedback() error {
	return m.advance(ActionAcknowledgeFeedback)
}

// SubmitSurvey records the three required survey answers and advances.
func (m *Machine) SubmitSurvey(curiosity, relatedness int, accept bool) error {
	if _, err := next(m.stage, ActionSubmitSurvey); err != nil {
		return err
	}
	if curiosity < 1 || curiosity > 7 {
		return &ValidationError{Field: "curiosity", Reason: "rating must be between 1 and 7"}
	}
	if relatedness < 1 || relatedness > 7 {
		return &ValidationError{Field: "relatedness", Reason: "rating must be between 1 and 7"}
	}

	m.rec.Curiosity = curiosity
	m.rec.Relatedness = relatedness
	m.rec.Accept = accept

	return m.advance(ActionSubmitSurvey)
}

// SubmitEdit records the edited question and completes the trial, returning
// the assembled Record. The scratch holder is cleared; the machine cannot be
// reused.
func (m *Machine) SubmitEdit(text string) (*Record, error) {
	if _, err := next(m.stage, ActionSubmitEdit); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &ValidationError{Field: "edited question", Reason: "enter your revised question before finishing"}
	}

	m.rec.EditedQuestion = trimmed
	if err := m.advance(ActionSubmitEdit); err != nil {
		return nil, err
	}

	rec := m.rec
	rec.PassageDuration = m.durations[StageShowPassage]
	rec.QuestionDuration = m.durations[StageAskQuestion]
	rec.FeedbackDuration = m.durations[StageShowFeedback]
	rec.SurveyDuration = m.durations[StageSurvey]
	rec.EditDuration = m.durations[StageEditQuestion]

	m.rec = nil
	return rec, nil
}

// Question returns the submitted question text, empty until submission.
func (m *Machine) Question() string {
	if m.rec == nil {
		return ""
	}
	return m.rec.Question
}

// Feedback returns the classification and suggestion. It is available from
// the feedback display onward, once ApplyQuestion has stored the round.
func (m *Machine) Feedback() (feedback.Level, string, bool) {
	if m.rec == nil {
		return "", "", false
	}
	switch m.stage {
	case StageShowFeedback, StageSurvey, StageEditQuestion:
		return m.rec.Level, m.rec.Suggestion, true
	}
	return "", "", false
}

// BaselineElapsed completes the baseline path after the dwell timer fires.
func (m *Machine) BaselineElapsed() error {
	return m.advance(ActionBaselineElapsed)
}

// SetComment stores an optional free-text note for a checkpoint. Blank text
// clears the slot.
func (m *Machine) SetComment(cp Checkpoint, text string) {
	if m.rec == nil {
		return
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		delete(m.rec.Comments, cp)
		return
	}
	m.rec.Comments[cp] = trimmed
}

func (m *Machine) advance(action Action) error {
	to, err := next(m.stage, action)
	if err != nil {
		return err
	}

	elapsed := m.clock().Sub(m.enteredAt)
	m.durations[m.stage] = elapsed
	m.obs.StageExited(m.stage, elapsed)

	m.enter(to)
	return nil
}

func (m *Machine) enter(stage Stage) {
	m.stage = stage
	m.enteredAt = m.clock()
	m.obs.StageEntered(stage)
}
