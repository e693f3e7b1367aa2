// Package trial drives a single trial through its ordered stage sequence,
// timing each stage, validating inputs at every transition, and assembling
// the final trial record.
package trial

import "fmt"

// Stage is one step of a trial.
type Stage string

const (
	StageShowPassage  Stage = "show_passage"
	StageAskQuestion  Stage = "ask_question"
	StageShowFeedback Stage = "show_feedback"
	StageSurvey       Stage = "survey"
	StageEditQuestion Stage = "edit_question"
	StageBaseline     Stage = "baseline_screen"
	StageComplete     Stage = "complete"
)

// Action is a participant- or timer-driven trigger for a stage transition.
type Action string

const (
	ActionAcknowledgeRead     Action = "acknowledge_read"
	ActionSubmitQuestion      Action = "submit_question"
	ActionAcknowledgeFeedback Action = "acknowledge_feedback"
	ActionSubmitSurvey        Action = "submit_survey"
	ActionSubmitEdit          Action = "submit_edit"
	ActionBaselineElapsed     Action = "baseline_elapsed"
)

// transitions is the full legal (stage, action) → stage table. Anything not
// listed here is an illegal transition.
var transitions = map[Stage]map[Action]Stage{
	StageShowPassage: {
		ActionAcknowledgeRead: StageAskQuestion,
	},
	StageAskQuestion: {
		ActionSubmitQuestion: StageShowFeedback,
	},
	StageShowFeedback: {
		ActionAcknowledgeFeedback: StageSurvey,
	},
	StageSurvey: {
		ActionSubmitSurvey: StageEditQuestion,
	},
	StageEditQuestion: {
		ActionSubmitEdit: StageComplete,
	},
	StageBaseline: {
		ActionBaselineElapsed: StageComplete,
	},
}

// TransitionError reports an action applied in a stage that does not accept
// it.
type TransitionError struct {
	From   Stage
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("trial: action %q is not legal in stage %q", e.Action, e.From)
}

// ValidationError reports a required input that is missing or malformed. The
// trial stays in its current stage and keeps all entered data.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("trial: %s: %s", e.Field, e.Reason)
}

// next resolves the transition table, returning a TransitionError for any
// pair it does not contain.
func next(from Stage, action Action) (Stage, error) {
	if to, ok := transitions[from][action]; ok {
		return to, nil
	}
	return from, &TransitionError{From: from, Action: action}
}
