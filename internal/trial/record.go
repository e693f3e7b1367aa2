package trial

import (
	"time"

	"bloomlab/internal/assign"
	"bloomlab/internal/catalog"
	"bloomlab/internal/feedback"
)

// Checkpoint identifies one of the optional free-text comment slots a
// participant can fill during a trial.
type Checkpoint string

const (
	CheckpointQuestion Checkpoint = "question"
	CheckpointFeedback Checkpoint = "feedback"
	CheckpointSurvey   Checkpoint = "survey"
	CheckpointEdit     Checkpoint = "edit"
)

// Record is one completed trial. It is assembled incrementally while the
// trial is in flight and appended to the response log only at completion.
type Record struct {
	Phase        string
	Ordinal      int
	PassageIndex int
	Category     catalog.Category
	Condition    assign.Condition

	// Question is the participant's original question.
	Question string

	// Level is the taxonomy classification of Question.
	Level feedback.Level

	// Suggestion is the generated revision shown to the participant.
	Suggestion         string
	SuggestionSource   feedback.Source
	SuggestionAttempts int

	// Survey answers. Curiosity and Relatedness are 1-7; Accept is the
	// binary adoption choice.
	Curiosity   int
	Relatedness int
	Accept      bool

	// EditedQuestion is the participant's final revision.
	EditedQuestion string

	// Comments holds the optional free-text checkpoint notes.
	Comments map[Checkpoint]string

	// Per-stage elapsed durations.
	PassageDuration  time.Duration
	QuestionDuration time.Duration
	FeedbackDuration time.Duration
	SurveyDuration   time.Duration
	EditDuration     time.Duration

	// Metrics are the suggestion's lexical quality measurements.
	Metrics feedback.Metrics
}
