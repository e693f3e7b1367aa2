// Package session sequences a participant's run through its phases and owns
// the single live session state: condition maps, passage order, response
// logs, and the event and marker channels.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"go.uber.org/zap"

	"bloomlab/internal/assign"
	"bloomlab/internal/catalog"
	"bloomlab/internal/eventlog"
	"bloomlab/internal/feedback"
	"bloomlab/internal/marker"
	"bloomlab/internal/survey"
	"bloomlab/internal/trial"
)

// Phase is one block of the run. Phases advance strictly forward.
type Phase string

const (
	PhasePretest      Phase = "pretest"
	PhaseBaseline     Phase = "baseline"
	PhaseBriefing     Phase = "briefing"
	PhasePractice     Phase = "practice"
	PhasePracticeDone Phase = "practice_done"
	PhaseMain         Phase = "main"
	PhaseCompleted    Phase = "completed"
)

// DefaultBaselineDwell is the uninterruptible baseline display duration.
const DefaultBaselineDwell = 30 * time.Second

// PhaseError reports an operation attempted in the wrong phase.
type PhaseError struct {
	Phase Phase
	Op    string
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("session: %s is not allowed in phase %q", e.Op, e.Phase)
}

// ErrBaselineActive is returned when the baseline dwell has not elapsed yet.
var ErrBaselineActive = errors.New("session: baseline dwell still running")

// Config configures one run.
type Config struct {
	ParticipantID string
	BaselineDwell time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithRand overrides the passage-shuffle randomness, for tests. The default
// is a fresh time-seeded generator; main-phase order is deliberately not
// reproducible from the participant id.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// Controller owns the run. All mutation happens through its methods, one
// handler invocation at a time.
type Controller struct {
	cfg     Config
	catalog *catalog.Catalog
	gen     trial.Generator
	events  *eventlog.Logger
	markers *marker.Client
	log     *zap.Logger
	clock   func() time.Time
	rng     *rand.Rand

	phase   Phase
	ordinal int
	current *trial.Machine

	passages   []catalog.Passage
	conditions map[int]assign.Condition

	pretest         *survey.Pretest
	practiceRecords []trial.Record
	mainRecords     []trial.Record

	baselineStart time.Time

	// TrialSink receives each completed record, in addition to the
	// in-memory response logs. Optional.
	TrialSink func(trial.Record) error
}

// NewController creates a run controller in the pretest phase.
func NewController(cfg Config, cat *catalog.Catalog, gen trial.Generator, events *eventlog.Logger, markers *marker.Client, log *zap.Logger, opts ...Option) *Controller {
	if cfg.BaselineDwell <= 0 {
		cfg.BaselineDwell = DefaultBaselineDwell
	}
	if log == nil {
		log = zap.NewNop()
	}
	now := uint64(time.Now().UnixNano())
	c := &Controller{
		cfg:     cfg,
		catalog: cat,
		gen:     gen,
		events:  events,
		markers: markers,
		log:     log,
		clock:   time.Now,
		rng:     rand.New(rand.NewPCG(now, now>>32)),
		phase:   PhasePretest,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Ordinal returns the current trial ordinal within the phase.
func (c *Controller) Ordinal() int {
	return c.ordinal
}

// ParticipantID returns the run's participant id.
func (c *Controller) ParticipantID() string {
	return c.cfg.ParticipantID
}

// TrialCount returns the number of trials in the current phase.
func (c *Controller) TrialCount() int {
	return len(c.passages)
}

// CurrentPassage returns the passage of the in-flight trial.
func (c *Controller) CurrentPassage() (catalog.Passage, bool) {
	if c.current == nil || c.ordinal >= len(c.passages) {
		return catalog.Passage{}, false
	}
	return c.passages[c.ordinal], true
}

// Stage returns the in-flight trial's stage, or "" when no trial is live.
func (c *Controller) Stage() trial.Stage {
	if c.current == nil {
		return ""
	}
	return c.current.Stage()
}

// CurrentQuestion returns the in-flight trial's submitted question.
func (c *Controller) CurrentQuestion() string {
	if c.current == nil {
		return ""
	}
	return c.current.Question()
}

// CurrentFeedback returns the in-flight trial's classification and
// suggestion once generated.
func (c *Controller) CurrentFeedback() (feedback.Level, string, bool) {
	if c.current == nil {
		return "", "", false
	}
	return c.current.Feedback()
}

// Pretest returns the stored pretest response, nil before submission.
func (c *Controller) Pretest() *survey.Pretest {
	return c.pretest
}

// PracticeRecords returns the completed practice trials.
func (c *Controller) PracticeRecords() []trial.Record {
	return c.practiceRecords
}

// MainRecords returns the completed main trials.
func (c *Controller) MainRecords() []trial.Record {
	return c.mainRecords
}

// SubmitPretest validates and stores the pretest response, then advances to
// the baseline phase.
func (c *Controller) SubmitPretest(p *survey.Pretest) error {
	if c.phase != PhasePretest {
		return &PhaseError{Phase: c.phase, Op: "submit pretest"}
	}
	if err := p.Validate(); err != nil {
		c.logEvent("pretest_validation_error", map[string]string{"reason": err.Error()})
		return err
	}
	c.pretest = p
	c.phase = PhaseBaseline
	c.logEvent("pretest_survey_completed", nil)
	return nil
}

// BeginBaseline starts the baseline dwell and returns its duration. No
// participant input is accepted until the dwell elapses.
func (c *Controller) BeginBaseline() (time.Duration, error) {
	if c.phase != PhaseBaseline {
		return 0, &PhaseError{Phase: c.phase, Op: "begin baseline"}
	}
	if !c.baselineStart.IsZero() {
		return 0, fmt.Errorf("session: baseline already started")
	}
	c.current = trial.NewBaselineMachine(trial.WithClock(c.clock), trial.WithObserver(c))
	c.baselineStart = c.clock()
	return c.cfg.BaselineDwell, nil
}

// FinishBaseline completes the baseline phase. Calling it before the dwell
// has elapsed returns ErrBaselineActive and changes nothing.
func (c *Controller) FinishBaseline() error {
	if c.phase != PhaseBaseline || c.baselineStart.IsZero() {
		return &PhaseError{Phase: c.phase, Op: "finish baseline"}
	}
	if c.clock().Sub(c.baselineStart) < c.cfg.BaselineDwell {
		return ErrBaselineActive
	}
	if err := c.current.BaselineElapsed(); err != nil {
		return err
	}
	c.current = nil
	c.phase = PhaseBriefing
	c.logEvent("baseline_completed", map[string]string{
		"dwell_ms": strconv.FormatInt(c.cfg.BaselineDwell.Milliseconds(), 10),
	})
	return nil
}

// StartPractice ends the briefing and begins the two practice trials with a
// fresh condition map.
func (c *Controller) StartPractice() error {
	if c.phase != PhaseBriefing {
		return &PhaseError{Phase: c.phase, Op: "start practice"}
	}
	c.phase = PhasePractice
	c.ordinal = 0
	c.passages = c.catalog.PassagesFor(catalog.PoolPractice)
	practiceConds := assign.AssignPractice(c.cfg.ParticipantID)
	c.conditions = make(map[int]assign.Condition, len(c.passages))
	for i := range c.passages {
		c.conditions[i] = practiceConds[i]
	}
	c.logEvent("practice_started", nil)
	c.startTrial()
	return nil
}

// StartMain begins the main block: fresh condition map keyed by passage
// index and a freshly shuffled passage order.
func (c *Controller) StartMain() error {
	if c.phase != PhasePracticeDone {
		return &PhaseError{Phase: c.phase, Op: "start main"}
	}
	c.phase = PhaseMain
	c.ordinal = 0

	pool := c.catalog.PassagesFor(catalog.PoolMain)
	c.conditions = assign.Assign(c.cfg.ParticipantID, pool)

	shuffled := make([]catalog.Passage, len(pool))
	copy(shuffled, pool)
	c.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	c.passages = shuffled

	c.logEvent("main_started", map[string]string{
		"trials": strconv.Itoa(len(c.passages)),
	})
	c.startTrial()
	return nil
}

// startTrial spins up the machine for the current ordinal. The condition key
// is the trial ordinal during practice and the passage index during main.
func (c *Controller) startTrial() {
	p := c.passages[c.ordinal]
	key := p.Index
	if c.phase == PhasePractice {
		key = c.ordinal
	}
	c.current = trial.NewMachine(string(c.phase), c.ordinal, p, c.conditions[key], c.gen,
		trial.WithClock(c.clock), trial.WithObserver(c))
}

// AcknowledgeRead advances the in-flight trial past the passage display.
func (c *Controller) AcknowledgeRead() error {
	return c.trialOp(func(m *trial.Machine) error { return m.AcknowledgeRead() })
}

// CheckQuestion validates the question text against the in-flight trial
// without mutating anything.
func (c *Controller) CheckQuestion(text string) (string, error) {
	if c.current == nil {
		return "", &PhaseError{Phase: c.phase, Op: "trial input"}
	}
	trimmed, err := c.current.CheckQuestion(text)
	if err != nil {
		c.noteValidation(err)
		return "", err
	}
	return trimmed, nil
}

// GenerateFeedback runs the feedback generator for the in-flight trial. It
// mutates no session state, so the UI may call it from a command goroutine
// while the render loop keeps reading.
func (c *Controller) GenerateFeedback(ctx context.Context, question string) (*feedback.Output, error) {
	if c.current == nil {
		return nil, &PhaseError{Phase: c.phase, Op: "trial input"}
	}
	return c.current.GenerateFeedback(ctx, question)
}

// ApplyQuestion records a generated feedback round and advances the trial.
// Must run on the handler goroutine, like every other mutation.
func (c *Controller) ApplyQuestion(question string, out *feedback.Output) error {
	return c.trialOp(func(m *trial.Machine) error { return m.ApplyQuestion(question, out) })
}

// SubmitQuestion validates and submits the participant's question, running
// the feedback generator synchronously.
func (c *Controller) SubmitQuestion(ctx context.Context, text string) error {
	return c.trialOp(func(m *trial.Machine) error { return m.SubmitQuestion(ctx, text) })
}

// AcknowledgeFeedback advances past the feedback display.
func (c *Controller) AcknowledgeFeedback() error {
	return c.trialOp(func(m *trial.Machine) error { return m.AcknowledgeFeedback() })
}

// SubmitSurvey records the trial survey answers.
func (c *Controller) SubmitSurvey(curiosity, relatedness int, accept bool) error {
	return c.trialOp(func(m *trial.Machine) error {
		return m.SubmitSurvey(curiosity, relatedness, accept)
	})
}

// SetComment stores an optional checkpoint note on the in-flight trial.
func (c *Controller) SetComment(cp trial.Checkpoint, text string) {
	if c.current != nil {
		c.current.SetComment(cp, text)
	}
}

// NoteEditFocus records the participant focusing the edit textarea.
func (c *Controller) NoteEditFocus() {
	c.markers.Send(marker.EditTextareaFocus)
	c.logEvent("edit_textarea_focus", nil)
}

// SubmitEdit completes the in-flight trial. The record is appended to the
// phase's response log; the last trial of a phase flips the phase to its
// terminal state instead of starting another trial.
func (c *Controller) SubmitEdit(text string) error {
	if c.current == nil {
		return &PhaseError{Phase: c.phase, Op: "submit edit"}
	}
	rec, err := c.current.SubmitEdit(text)
	if err != nil {
		c.noteValidation(err)
		return err
	}

	switch c.phase {
	case PhasePractice:
		c.practiceRecords = append(c.practiceRecords, *rec)
	case PhaseMain:
		c.mainRecords = append(c.mainRecords, *rec)
	}
	if c.TrialSink != nil {
		if err := c.TrialSink(*rec); err != nil {
			c.log.Error("trial record persistence failed", zap.Error(err))
		}
	}
	c.logEvent("trial_completed", map[string]string{
		"passage_index": strconv.Itoa(rec.PassageIndex),
		"condition":     string(rec.Condition),
		"level":         string(rec.Level),
	})

	c.current = nil
	c.ordinal++
	if c.ordinal >= len(c.passages) {
		switch c.phase {
		case PhasePractice:
			c.phase = PhasePracticeDone
			c.logEvent("practice_completed", nil)
		case PhaseMain:
			c.phase = PhaseCompleted
			c.logEvent("run_completed", nil)
		}
		return nil
	}
	c.startTrial()
	return nil
}

// Events returns the full in-memory event stream.
func (c *Controller) Events() []eventlog.Entry {
	return c.events.Entries()
}

// Flush forces the event buffer into the durable sink.
func (c *Controller) Flush() {
	c.events.Flush()
}

func (c *Controller) trialOp(op func(*trial.Machine) error) error {
	if c.current == nil {
		return &PhaseError{Phase: c.phase, Op: "trial input"}
	}
	if err := op(c.current); err != nil {
		c.noteValidation(err)
		return err
	}
	return nil
}

func (c *Controller) noteValidation(err error) {
	var verr *trial.ValidationError
	if errors.As(err, &verr) {
		c.logEvent("validation_error", map[string]string{
			"field": verr.Field, "reason": verr.Reason,
		})
	}
}

func (c *Controller) logEvent(label string, payload map[string]string) {
	c.events.Log(eventlog.Entry{
		Time:    c.clock(),
		Phase:   string(c.phase),
		Stage:   string(c.Stage()),
		Ordinal: c.ordinal,
		Label:   label,
		Payload: payload,
	})
}

// Stage edge markers. Passage hidden pairs with question-input start on the
// show_passage → ask_question edge.
var (
	stageEnterMarkers = map[trial.Stage]marker.Event{
		trial.StageBaseline:     marker.BaselineStart,
		trial.StageShowPassage:  marker.ParagraphShown,
		trial.StageAskQuestion:  marker.QuestionInputStart,
		trial.StageShowFeedback: marker.FeedbackStart,
		trial.StageSurvey:       marker.SurveyStart,
		trial.StageEditQuestion: marker.EditStart,
	}
	stageExitMarkers = map[trial.Stage]marker.Event{
		trial.StageBaseline:     marker.BaselineEnd,
		trial.StageShowPassage:  marker.ParagraphHidden,
		trial.StageAskQuestion:  marker.QuestionInputEnd,
		trial.StageShowFeedback: marker.FeedbackEnd,
		trial.StageSurvey:       marker.SurveyEnd,
		trial.StageEditQuestion: marker.EditEnd,
	}
)

// StageEntered implements trial.Observer: markers and events at every edge.
func (c *Controller) StageEntered(stage trial.Stage) {
	if ev, ok := stageEnterMarkers[stage]; ok {
		c.markers.Send(ev)
	}
	c.events.Log(eventlog.Entry{
		Time:    c.clock(),
		Phase:   string(c.phase),
		Stage:   string(stage),
		Ordinal: c.ordinal,
		Label:   "stage_entered",
	})
}

// StageExited implements trial.Observer.
func (c *Controller) StageExited(stage trial.Stage, elapsed time.Duration) {
	if ev, ok := stageExitMarkers[stage]; ok {
		c.markers.Send(ev)
	}
	c.events.Log(eventlog.Entry{
		Time:    c.clock(),
		Phase:   string(c.phase),
		Stage:   string(stage),
		Ordinal: c.ordinal,
		Label:   "stage_exited",
		Payload: map[string]string{
			"elapsed_ms": strconv.FormatInt(elapsed.Milliseconds(), 10),
		},
	})
}
