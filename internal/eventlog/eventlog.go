// Package eventlog records the append-only event stream of a run: every
// stage transition, validation failure, marker dispatch, and generator
// outcome, timestamped with its phase/stage context.
package eventlog

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is one event in the stream.
type Entry struct {
	Time    time.Time
	Phase   string
	Stage   string
	Ordinal int
	Label   string

	// Payload carries optional structured detail, kept flat for export.
	Payload map[string]string
}

// Sink receives flushed batches of entries in order.
type Sink interface {
	Append(entries []Entry) error
}

// DefaultBufferSize is the number of non-critical entries buffered before an
// automatic flush.
const DefaultBufferSize = 8

// Logger buffers entries in small batches before handing them to a durable
// sink. Labels containing "completed" or "error" force an immediate flush.
// The full stream is also retained in memory so exports never depend on the
// sink being healthy. Safe for concurrent use: generation runs off the
// handler goroutine and records its provider calls here.
type Logger struct {
	sink    Sink
	bufSize int
	log     *zap.Logger

	mu         sync.Mutex
	buf        []Entry
	all        []Entry
	sinkFailed bool
}

// NewLogger creates a Logger over the given sink. A nil sink keeps the
// stream in memory only; a nil zap logger disables diagnostics.
func NewLogger(sink Sink, log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{
		sink:    sink,
		bufSize: DefaultBufferSize,
		log:     log,
	}
}

// Log appends one entry to the stream. Entries are never reordered or
// dropped; a full buffer or a critical label triggers a flush.
func (l *Logger) Log(e Entry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf = append(l.buf, e)
	l.all = append(l.all, e)

	if critical(e.Label) || len(l.buf) >= l.bufSize {
		l.flushLocked()
	}
}

// Flush hands buffered entries to the sink. Flushing twice without new
// entries is a no-op. A sink failure degrades the logger to in-memory only,
// surfaced once.
func (l *Logger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flushLocked()
}

func (l *Logger) flushLocked() {
	if len(l.buf) == 0 {
		return
	}
	batch := l.buf
	l.buf = nil

	if l.sink == nil || l.sinkFailed {
		return
	}
	if err := l.sink.Append(batch); err != nil {
		l.sinkFailed = true
		l.log.Error("event sink failed, continuing in memory only", zap.Error(err))
	}
}

// Entries returns a copy of the full in-memory stream, flushed or not.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.all))
	copy(out, l.all)
	return out
}

func critical(label string) bool {
	return strings.Contains(label, "completed") || strings.Contains(label, "error")
}

// MemorySink is a Sink for tests, recording every appended batch.
type MemorySink struct {
	Entries []Entry
	Batches int
	Err     error
}

// Append records the batch, or fails with the configured error.
func (s *MemorySink) Append(entries []Entry) error {
	if s.Err != nil {
		return s.Err
	}
	s.Entries = append(s.Entries, entries...)
	s.Batches++
	return nil
}
