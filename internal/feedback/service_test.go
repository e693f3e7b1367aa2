package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"bloomlab/internal/assign"
	"bloomlab/internal/llm"
)

const testPassage = "Glial cells modulate synaptic transmission in the brain."

func TestClassifyReturnsLevel(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"level":"analyze"}`)},
	)
	svc := NewService(mock, DefaultConfig(), nil)

	level := svc.Classify(context.Background(), testPassage, "Why do glial cells matter?")
	if level != LevelAnalyze {
		t.Errorf("level = %q, want analyze", level)
	}
}

func TestClassifyDegradesToRememberOnError(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	svc := NewService(mock, DefaultConfig(), nil)

	level := svc.Classify(context.Background(), testPassage, "Why?")
	if level != LevelRemember {
		t.Errorf("level = %q, want remember on provider failure", level)
	}
}

func TestClassifyDegradesOnUnknownLabel(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"level":"transcend"}`)},
	)
	svc := NewService(mock, DefaultConfig(), nil)

	level := svc.Classify(context.Background(), testPassage, "Why?")
	if level != LevelRemember {
		t.Errorf("level = %q, want remember on unknown label", level)
	}
}

func TestSuggestGeneratedAppendsQuestionMark(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"question":"Could glial modulation treat disorders"}`)},
	)
	svc := NewService(mock, DefaultConfig(), nil)

	text, source, attempts := svc.Suggest(context.Background(),
		assign.ConditionReinforcing, testPassage, "What do glial cells do?")
	if source != SourceGenerated {
		t.Errorf("source = %q, want generated", source)
	}
	if !strings.HasSuffix(text, "?") {
		t.Errorf("suggestion %q does not end with question mark", text)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestSuggestDivergentFallbackAfterExhaustion(t *testing.T) {
	// Three unusable responses: one empty, one unreadable, one transport
	// failure. The local template pool must fill in.
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"question":"   "}`)},
		llm.MockResponse{Content: json.RawMessage(`not json`)},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	svc := NewService(mock, DefaultConfig(), nil)

	text, source, attempts := svc.Suggest(context.Background(),
		assign.ConditionDivergent, testPassage, "What do glial cells do?")
	if source != SourceFallback {
		t.Fatalf("source = %q, want fallback", source)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if !strings.HasSuffix(text, "?") {
		t.Errorf("fallback %q does not end with question mark", text)
	}
	found := false
	for _, f := range divergentFallbacks {
		if text == f {
			found = true
		}
	}
	if !found {
		t.Errorf("fallback %q not drawn from the template pool", text)
	}
}

func TestSuggestReinforcingFallbackEmbedsContentWord(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	svc := NewService(mock, DefaultConfig(), nil)

	text, source, _ := svc.Suggest(context.Background(),
		assign.ConditionReinforcing, testPassage, "How do synapses strengthen?")
	if source != SourceFallback {
		t.Fatalf("source = %q, want fallback", source)
	}
	if !strings.Contains(text, "strengthen") {
		t.Errorf("fallback %q should embed a content word of the original question", text)
	}
	if !strings.HasSuffix(text, "?") {
		t.Errorf("fallback %q does not end with question mark", text)
	}
}

func TestSuggestPlaceholderOnRateLimit(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrRateLimit{}},
	)
	svc := NewService(mock, DefaultConfig(), nil)

	text, source, attempts := svc.Suggest(context.Background(),
		assign.ConditionReinforcing, testPassage, "What do glial cells do?")
	if source != SourcePlaceholder {
		t.Fatalf("source = %q, want placeholder", source)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry past quota exhaustion)", attempts)
	}
	if text != placeholderSuggestion {
		t.Errorf("placeholder text = %q", text)
	}
}

func TestGenerateFullRound(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"level":"understand"}`)},
		llm.MockResponse{Content: json.RawMessage(`{"question":"Could glial signaling be engineered to repair synapses?"}`)},
	)
	svc := NewService(mock, DefaultConfig(), nil)

	out, err := svc.Generate(context.Background(),
		assign.ConditionReinforcing, testPassage, "What do glial cells do?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Level != LevelUnderstand {
		t.Errorf("level = %q, want understand", out.Level)
	}
	if out.Source != SourceGenerated {
		t.Errorf("source = %q, want generated", out.Source)
	}
	if out.Metrics.Empty || !out.Metrics.HasQuestionMark {
		t.Errorf("metrics not measured: %+v", out.Metrics)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 provider calls, got %d", mock.CallCount())
	}
}

func TestGenerateRejectsEmptyQuestion(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), DefaultConfig(), nil)

	_, err := svc.Generate(context.Background(),
		assign.ConditionReinforcing, testPassage, "   ")
	if err == nil {
		t.Fatal("expected error for empty question")
	}
	if errors.Is(err, context.Canceled) {
		t.Error("wrong error kind")
	}
}
