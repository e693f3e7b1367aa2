package eventlog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"bloomlab/internal/assign"
	"bloomlab/internal/catalog"
	"bloomlab/internal/feedback"
	"bloomlab/internal/trial"
)

// ExportName builds the export filename convention:
// <kind>_<participant>_<YYYYMMDD_HHMMSS>.csv
func ExportName(kind, participantID string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s.csv", kind, participantID, at.Format("20060102_150405"))
}

var eventHeader = []string{"time", "phase", "stage", "ordinal", "label", "payload"}

// WriteEventsCSV writes the event stream as a flat table. Payloads are
// encoded as JSON in a single column.
func WriteEventsCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(eventHeader); err != nil {
		return err
	}
	for _, e := range entries {
		payload := ""
		if len(e.Payload) > 0 {
			b, err := json.Marshal(e.Payload)
			if err != nil {
				return fmt.Errorf("encode payload for %q: %w", e.Label, err)
			}
			payload = string(b)
		}
		row := []string{
			e.Time.Format(time.RFC3339Nano),
			e.Phase,
			e.Stage,
			strconv.Itoa(e.Ordinal),
			e.Label,
			payload,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var trialHeader = []string{
	"phase", "ordinal", "passage_index", "category", "condition",
	"question", "level", "suggestion", "suggestion_source", "suggestion_attempts",
	"curiosity", "relatedness", "accept", "edited_question",
	"comment_question", "comment_feedback", "comment_survey", "comment_edit",
	"passage_ms", "question_ms", "feedback_ms", "survey_ms", "edit_ms",
	"question_overlap", "passage_overlap",
	"suggestion_length", "suggestion_words", "has_question_mark", "empty",
}

func ms(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}

func ratio(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteTrialCSV writes trial records as one row per completed trial.
// Durations are integer milliseconds; ratios keep full precision.
func WriteTrialCSV(w io.Writer, records []trial.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trialHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Phase,
			strconv.Itoa(r.Ordinal),
			strconv.Itoa(r.PassageIndex),
			string(r.Category),
			string(r.Condition),
			r.Question,
			string(r.Level),
			r.Suggestion,
			string(r.SuggestionSource),
			strconv.Itoa(r.SuggestionAttempts),
			strconv.Itoa(r.Curiosity),
			strconv.Itoa(r.Relatedness),
			strconv.FormatBool(r.Accept),
			r.EditedQuestion,
			r.Comments[trial.CheckpointQuestion],
			r.Comments[trial.CheckpointFeedback],
			r.Comments[trial.CheckpointSurvey],
			r.Comments[trial.CheckpointEdit],
			ms(r.PassageDuration),
			ms(r.QuestionDuration),
			ms(r.FeedbackDuration),
			ms(r.SurveyDuration),
			ms(r.EditDuration),
			ratio(r.Metrics.QuestionOverlap),
			ratio(r.Metrics.PassageOverlap),
			strconv.Itoa(r.Metrics.Length),
			strconv.Itoa(r.Metrics.WordCount),
			strconv.FormatBool(r.Metrics.HasQuestionMark),
			strconv.FormatBool(r.Metrics.Empty),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTrialCSV parses a table written by WriteTrialCSV back into records.
func ReadTrialCSV(r io.Reader) ([]trial.Record, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("trial table has no header")
	}
	if len(rows[0]) != len(trialHeader) {
		return nil, fmt.Errorf("trial table has %d columns, want %d", len(rows[0]), len(trialHeader))
	}

	records := make([]trial.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseTrialRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseTrialRow(row []string) (trial.Record, error) {
	var rec trial.Record
	var err error

	atoi := func(s string) int {
		if err != nil {
			return 0
		}
		var n int
		n, err = strconv.Atoi(s)
		return n
	}
	dur := func(s string) time.Duration {
		return time.Duration(atoi(s)) * time.Millisecond
	}
	f64 := func(s string) float64 {
		if err != nil {
			return 0
		}
		var f float64
		f, err = strconv.ParseFloat(s, 64)
		return f
	}
	boolean := func(s string) bool {
		if err != nil {
			return false
		}
		var b bool
		b, err = strconv.ParseBool(s)
		return b
	}

	rec.Phase = row[0]
	rec.Ordinal = atoi(row[1])
	rec.PassageIndex = atoi(row[2])
	rec.Category = catalog.Category(row[3])
	rec.Condition = assign.Condition(row[4])
	rec.Question = row[5]
	rec.Level = feedback.Level(row[6])
	rec.Suggestion = row[7]
	rec.SuggestionSource = feedback.Source(row[8])
	rec.SuggestionAttempts = atoi(row[9])
	rec.Curiosity = atoi(row[10])
	rec.Relatedness = atoi(row[11])
	rec.Accept = boolean(row[12])
	rec.EditedQuestion = row[13]

	rec.Comments = make(map[trial.Checkpoint]string)
	for i, cp := range []trial.Checkpoint{
		trial.CheckpointQuestion, trial.CheckpointFeedback,
		trial.CheckpointSurvey, trial.CheckpointEdit,
	} {
		if row[14+i] != "" {
			rec.Comments[cp] = row[14+i]
		}
	}

	rec.PassageDuration = dur(row[18])
	rec.QuestionDuration = dur(row[19])
	rec.FeedbackDuration = dur(row[20])
	rec.SurveyDuration = dur(row[21])
	rec.EditDuration = dur(row[22])
	rec.Metrics.QuestionOverlap = f64(row[23])
	rec.Metrics.PassageOverlap = f64(row[24])
	rec.Metrics.Length = atoi(row[25])
	rec.Metrics.WordCount = atoi(row[26])
	rec.Metrics.HasQuestionMark = boolean(row[27])
	rec.Metrics.Empty = boolean(row[28])

	return rec, err
}
