package eventlog

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func entry(label string) Entry {
	return Entry{Time: time.Unix(100, 0), Phase: "main", Stage: "survey", Label: label}
}

func TestBufferFlushesAtCapacity(t *testing.T) {
	sink := &MemorySink{}
	l := NewLogger(sink, nil)

	for i := 0; i < DefaultBufferSize-1; i++ {
		l.Log(entry("stage_entered"))
	}
	if len(sink.Entries) != 0 {
		t.Fatalf("flushed early: %d entries in sink", len(sink.Entries))
	}

	l.Log(entry("stage_entered"))
	if len(sink.Entries) != DefaultBufferSize {
		t.Errorf("sink has %d entries, want %d", len(sink.Entries), DefaultBufferSize)
	}
}

func TestCriticalLabelsForceFlush(t *testing.T) {
	for _, label := range []string{"trial_completed", "generator_error"} {
		sink := &MemorySink{}
		l := NewLogger(sink, nil)

		l.Log(entry("stage_entered"))
		l.Log(entry(label))
		if len(sink.Entries) != 2 {
			t.Errorf("label %q: sink has %d entries, want 2", label, len(sink.Entries))
		}
	}
}

func TestFlushIsIdempotent(t *testing.T) {
	sink := &MemorySink{}
	l := NewLogger(sink, nil)

	l.Log(entry("stage_entered"))
	l.Log(entry("stage_exited"))
	l.Flush()
	l.Flush()

	if len(sink.Entries) != 2 {
		t.Errorf("double flush duplicated entries: %d", len(sink.Entries))
	}
	if sink.Batches != 1 {
		t.Errorf("expected a single batch, got %d", sink.Batches)
	}
}

func TestOrderPreserved(t *testing.T) {
	sink := &MemorySink{}
	l := NewLogger(sink, nil)

	labels := []string{"a", "b", "c", "trial_completed", "d"}
	for _, lb := range labels {
		l.Log(entry(lb))
	}
	l.Flush()

	if len(sink.Entries) != len(labels) {
		t.Fatalf("sink has %d entries, want %d", len(sink.Entries), len(labels))
	}
	for i, lb := range labels {
		if sink.Entries[i].Label != lb {
			t.Errorf("position %d: got %q, want %q", i, sink.Entries[i].Label, lb)
		}
	}
}

func TestSinkFailureDegradesToMemory(t *testing.T) {
	sink := &MemorySink{Err: errors.New("disk gone")}
	l := NewLogger(sink, nil)

	l.Log(entry("run_error"))
	l.Log(entry("stage_entered"))
	l.Flush()

	if got := len(l.Entries()); got != 2 {
		t.Errorf("in-memory stream lost entries: %d", got)
	}
}

func TestEntriesReturnsFullStream(t *testing.T) {
	l := NewLogger(nil, nil)
	l.Log(entry("a"))
	l.Log(entry("trial_completed"))
	l.Log(entry("b"))

	got := l.Entries()
	if len(got) != 3 {
		t.Fatalf("stream has %d entries, want 3", len(got))
	}
	got[0].Label = "mutated"
	if l.Entries()[0].Label != "a" {
		t.Error("Entries must return a copy")
	}
}

func TestConcurrentLoggingKeepsEveryEntry(t *testing.T) {
	sink := &MemorySink{}
	l := NewLogger(sink, nil)

	// Generation records provider calls from its own goroutine while the
	// handler keeps logging stage events.
	const writers = 4
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				l.Log(entry("llm_request"))
			}
		}()
	}
	wg.Wait()
	l.Flush()

	if got := len(l.Entries()); got != writers*perWriter {
		t.Fatalf("entries = %d, want %d", got, writers*perWriter)
	}
	if got := len(sink.Entries); got != writers*perWriter {
		t.Fatalf("sink entries = %d, want %d", got, writers*perWriter)
	}
}
