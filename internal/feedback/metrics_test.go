package feedback

import "testing"

func TestContentWordsFiltersStopwordsAndShortTokens(t *testing.T) {
	words := contentWords("What is the role of a glial cell in the brain?")
	want := map[string]bool{"role": true, "glial": true, "cell": true, "brain": true}
	if len(words) != len(want) {
		t.Fatalf("got %v, want keys of %v", words, want)
	}
	for _, w := range words {
		if !want[w] {
			t.Errorf("unexpected content word %q", w)
		}
	}
}

func TestOverlapRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"full overlap", "glial cells modulate synapses", "glial cells modulate synapses strongly", 1.0},
		{"no overlap", "glial cells", "sampling error bias", 0.0},
		{"partial", "glial cells modulate", "glial neurons", 1.0 / 3.0},
		{"empty a yields zero", "", "glial cells", 0.0},
		{"stopwords only yields zero", "what is it about", "glial cells", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapRatio(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("OverlapRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMeasureSuggestion(t *testing.T) {
	m := MeasureSuggestion("Could glial modulation treat synaptic disorders?",
		"What do glial cells do?",
		"Glial cells modulate synaptic transmission in the brain.")

	if m.Empty {
		t.Error("suggestion should not be empty")
	}
	if !m.HasQuestionMark {
		t.Error("suggestion ends with a question mark")
	}
	if m.WordCount != 6 {
		t.Errorf("word count = %d, want 6", m.WordCount)
	}
	if m.QuestionOverlap <= 0 {
		t.Errorf("question overlap = %v, want > 0 (shares 'glial')", m.QuestionOverlap)
	}
	if m.PassageOverlap <= 0 {
		t.Errorf("passage overlap = %v, want > 0", m.PassageOverlap)
	}
}

func TestMeasureSuggestionEmpty(t *testing.T) {
	m := MeasureSuggestion("   ", "any question", "any passage")
	if !m.Empty {
		t.Error("blank suggestion should be flagged empty")
	}
	if m.Length != 0 || m.WordCount != 0 {
		t.Errorf("blank suggestion length=%d words=%d, want zeros", m.Length, m.WordCount)
	}
	if m.QuestionOverlap != 0.0 {
		t.Errorf("blank suggestion question overlap = %v, want 0.0", m.QuestionOverlap)
	}
}
