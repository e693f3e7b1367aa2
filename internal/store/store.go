// Package store persists runs, events, and trial records in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"bloomlab/internal/assign"
	"bloomlab/internal/catalog"
	"bloomlab/internal/eventlog"
	"bloomlab/internal/feedback"
	"bloomlab/internal/trial"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id         TEXT PRIMARY KEY,
	participant_id TEXT NOT NULL,
	started_at     TEXT NOT NULL,
	completed_at   TEXT
);

CREATE TABLE IF NOT EXISTS events (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	time         TEXT NOT NULL,
	phase        TEXT NOT NULL,
	stage        TEXT NOT NULL,
	ordinal      INTEGER NOT NULL,
	label        TEXT NOT NULL,
	payload_json TEXT,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS trial_records (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id              TEXT NOT NULL,
	phase               TEXT NOT NULL,
	ordinal             INTEGER NOT NULL,
	passage_index       INTEGER NOT NULL,
	category            TEXT NOT NULL,
	condition           TEXT NOT NULL,
	question            TEXT NOT NULL,
	level               TEXT NOT NULL,
	suggestion          TEXT NOT NULL,
	suggestion_source   TEXT NOT NULL,
	suggestion_attempts INTEGER NOT NULL,
	curiosity           INTEGER NOT NULL,
	relatedness         INTEGER NOT NULL,
	accept              INTEGER NOT NULL,
	edited_question     TEXT NOT NULL,
	comments_json       TEXT,
	passage_ms          INTEGER NOT NULL,
	question_ms         INTEGER NOT NULL,
	feedback_ms         INTEGER NOT NULL,
	survey_ms           INTEGER NOT NULL,
	edit_ms             INTEGER NOT NULL,
	question_overlap    REAL NOT NULL,
	passage_overlap     REAL NOT NULL,
	suggestion_length   INTEGER NOT NULL,
	suggestion_words    INTEGER NOT NULL,
	has_question_mark   INTEGER NOT NULL,
	empty               INTEGER NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// Run is one participant session.
type Run struct {
	ID            string
	ParticipantID string
	StartedAt     time.Time
	CompletedAt   time.Time
}

// Store manages run persistence in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun registers a new run for a participant and returns its id.
func (s *Store) CreateRun(participantID string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, participant_id, started_at) VALUES (?, ?, ?)`,
		id, participantID, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// CompleteRun stamps the run's completion time.
func (s *Store) CompleteRun(runID string) error {
	_, err := s.db.Exec(
		`UPDATE runs SET completed_at = ? WHERE run_id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), runID,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(runID string) (Run, error) {
	var r Run
	var started string
	var completed sql.NullString
	err := s.db.QueryRow(
		`SELECT run_id, participant_id, started_at, completed_at FROM runs WHERE run_id = ?`,
		runID,
	).Scan(&r.ID, &r.ParticipantID, &started, &completed)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	if completed.Valid {
		r.CompletedAt, _ = time.Parse(time.RFC3339Nano, completed.String)
	}
	return r, nil
}

// AppendEvents inserts a batch of event entries for a run atomically.
func (s *Store) AppendEvents(runID string, entries []eventlog.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO events (run_id, time, phase, stage, ordinal, label, payload_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		var payload any
		if len(e.Payload) > 0 {
			b, err := json.Marshal(e.Payload)
			if err != nil {
				return fmt.Errorf("marshal payload: %w", err)
			}
			payload = string(b)
		}
		if _, err := stmt.Exec(
			runID, e.Time.UTC().Format(time.RFC3339Nano),
			e.Phase, e.Stage, e.Ordinal, e.Label, payload,
		); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// EventsForRun returns a run's full event stream in insertion order.
func (s *Store) EventsForRun(runID string) ([]eventlog.Entry, error) {
	rows, err := s.db.Query(
		`SELECT time, phase, stage, ordinal, label, payload_json
		 FROM events WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []eventlog.Entry
	for rows.Next() {
		var e eventlog.Entry
		var ts string
		var payload sql.NullString
		if err := rows.Scan(&ts, &e.Phase, &e.Stage, &e.Ordinal, &e.Label, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Time, _ = time.Parse(time.RFC3339Nano, ts)
		if payload.Valid && payload.String != "" {
			if err := json.Unmarshal([]byte(payload.String), &e.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal payload: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AppendTrial inserts one completed trial record.
func (s *Store) AppendTrial(runID string, r trial.Record) error {
	var comments any
	if len(r.Comments) > 0 {
		b, err := json.Marshal(r.Comments)
		if err != nil {
			return fmt.Errorf("marshal comments: %w", err)
		}
		comments = string(b)
	}

	_, err := s.db.Exec(
		`INSERT INTO trial_records (
			run_id, phase, ordinal, passage_index, category, condition,
			question, level, suggestion, suggestion_source, suggestion_attempts,
			curiosity, relatedness, accept, edited_question, comments_json,
			passage_ms, question_ms, feedback_ms, survey_ms, edit_ms,
			question_overlap, passage_overlap,
			suggestion_length, suggestion_words, has_question_mark, empty
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, r.Phase, r.Ordinal, r.PassageIndex, string(r.Category), string(r.Condition),
		r.Question, string(r.Level), r.Suggestion, string(r.SuggestionSource), r.SuggestionAttempts,
		r.Curiosity, r.Relatedness, r.Accept, r.EditedQuestion, comments,
		r.PassageDuration.Milliseconds(), r.QuestionDuration.Milliseconds(),
		r.FeedbackDuration.Milliseconds(), r.SurveyDuration.Milliseconds(),
		r.EditDuration.Milliseconds(),
		r.Metrics.QuestionOverlap, r.Metrics.PassageOverlap,
		r.Metrics.Length, r.Metrics.WordCount, r.Metrics.HasQuestionMark, r.Metrics.Empty,
	)
	if err != nil {
		return fmt.Errorf("insert trial record: %w", err)
	}
	return nil
}

// TrialsForRun returns a run's trial records in completion order. An empty
// phase returns all phases.
func (s *Store) TrialsForRun(runID, phase string) ([]trial.Record, error) {
	query := `SELECT phase, ordinal, passage_index, category, condition,
		question, level, suggestion, suggestion_source, suggestion_attempts,
		curiosity, relatedness, accept, edited_question, comments_json,
		passage_ms, question_ms, feedback_ms, survey_ms, edit_ms,
		question_overlap, passage_overlap,
		suggestion_length, suggestion_words, has_question_mark, empty
		FROM trial_records WHERE run_id = ?`
	args := []any{runID}
	if phase != "" {
		query += ` AND phase = ?`
		args = append(args, phase)
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trials: %w", err)
	}
	defer rows.Close()

	var records []trial.Record
	for rows.Next() {
		r, err := scanTrial(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanTrial(rows *sql.Rows) (trial.Record, error) {
	var r trial.Record
	var category, condition, level, source string
	var comments sql.NullString
	var passageMS, questionMS, feedbackMS, surveyMS, editMS int64

	err := rows.Scan(
		&r.Phase, &r.Ordinal, &r.PassageIndex, &category, &condition,
		&r.Question, &level, &r.Suggestion, &source, &r.SuggestionAttempts,
		&r.Curiosity, &r.Relatedness, &r.Accept, &r.EditedQuestion, &comments,
		&passageMS, &questionMS, &feedbackMS, &surveyMS, &editMS,
		&r.Metrics.QuestionOverlap, &r.Metrics.PassageOverlap,
		&r.Metrics.Length, &r.Metrics.WordCount, &r.Metrics.HasQuestionMark, &r.Metrics.Empty,
	)
	if err != nil {
		return trial.Record{}, fmt.Errorf("scan trial: %w", err)
	}

	r.Category = catalog.Category(category)
	r.Condition = assign.Condition(condition)
	r.Level = feedback.Level(level)
	r.SuggestionSource = feedback.Source(source)
	r.PassageDuration = time.Duration(passageMS) * time.Millisecond
	r.QuestionDuration = time.Duration(questionMS) * time.Millisecond
	r.FeedbackDuration = time.Duration(feedbackMS) * time.Millisecond
	r.SurveyDuration = time.Duration(surveyMS) * time.Millisecond
	r.EditDuration = time.Duration(editMS) * time.Millisecond

	if comments.Valid && comments.String != "" {
		if err := json.Unmarshal([]byte(comments.String), &r.Comments); err != nil {
			return trial.Record{}, fmt.Errorf("unmarshal comments: %w", err)
		}
	}
	return r, nil
}

// EventSink adapts the store to eventlog.Sink for one run.
type EventSink struct {
	store *Store
	runID string
}

// NewEventSink creates an eventlog sink writing into the given run.
func NewEventSink(s *Store, runID string) *EventSink {
	return &EventSink{store: s, runID: runID}
}

// Append persists a flushed batch of entries.
func (s *EventSink) Append(entries []eventlog.Entry) error {
	return s.store.AppendEvents(s.runID, entries)
}
