package app

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"bloomlab/internal/eventlog"
	"bloomlab/internal/survey"
	"bloomlab/internal/trial"
)

// Exporter writes run CSVs into the configured export directory. Export
// failures are logged and reported as an empty path; they never interrupt
// the session.
type Exporter struct {
	dir string
	log *zap.Logger
}

// NewExporter creates an Exporter writing into dir.
func NewExporter(dir string, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{dir: dir, log: log}
}

func (e *Exporter) write(kind, participantID string, fill func(io.Writer) error) string {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		e.log.Error("export directory unavailable", zap.String("dir", e.dir), zap.Error(err))
		return ""
	}
	name := eventlog.ExportName(kind, participantID, time.Now())
	path := filepath.Join(e.dir, name)

	f, err := os.Create(path)
	if err != nil {
		e.log.Error("export file creation failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	defer f.Close()

	if err := fill(f); err != nil {
		e.log.Error("export write failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	return path
}

// Pretest writes the pretest questionnaire CSV.
func (e *Exporter) Pretest(participantID string, p *survey.Pretest) string {
	return e.write("pretest_survey", participantID, func(w io.Writer) error {
		return survey.WritePretestCSV(w, participantID, time.Now(), p)
	})
}

// Trials writes a trial-record CSV under the given kind
// (practice_results, partial_results, or final_results).
func (e *Exporter) Trials(kind, participantID string, records []trial.Record) string {
	if len(records) == 0 {
		return ""
	}
	return e.write(kind, participantID, func(w io.Writer) error {
		return eventlog.WriteTrialCSV(w, records)
	})
}

// Events writes the full event stream CSV.
func (e *Exporter) Events(participantID string, entries []eventlog.Entry) string {
	return e.write("events", participantID, func(w io.Writer) error {
		return eventlog.WriteEventsCSV(w, entries)
	})
}
