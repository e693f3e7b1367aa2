package feedback

import (
	"strings"
	"unicode"
)

// stopwords are function words excluded from overlap computation.
var stopwords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true,
	"all": true, "also": true, "am": true, "an": true, "and": true,
	"any": true, "are": true, "as": true, "at": true, "be": true,
	"because": true, "been": true, "before": true, "being": true,
	"below": true, "between": true, "both": true, "but": true, "by": true,
	"can": true, "could": true, "did": true, "do": true, "does": true,
	"doing": true, "down": true, "during": true, "each": true, "few": true,
	"for": true, "from": true, "further": true, "had": true, "has": true,
	"have": true, "having": true, "he": true, "her": true, "here": true,
	"hers": true, "him": true, "his": true, "how": true, "i": true,
	"if": true, "in": true, "into": true, "is": true, "it": true,
	"its": true, "just": true, "me": true, "more": true, "most": true,
	"my": true, "no": true, "nor": true, "not": true, "now": true,
	"of": true, "off": true, "on": true, "once": true, "only": true,
	"or": true, "other": true, "our": true, "out": true, "over": true,
	"own": true, "same": true, "she": true, "should": true, "so": true,
	"some": true, "such": true, "than": true, "that": true, "the": true,
	"their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "those": true,
	"through": true, "to": true, "too": true, "under": true, "until": true,
	"up": true, "very": true, "was": true, "we": true, "were": true,
	"what": true, "when": true, "where": true, "which": true,
	"while": true, "who": true, "whom": true, "why": true, "will": true,
	"with": true, "would": true, "you": true, "your": true,
}

// contentWords lowercases text, splits on non-letter/digit runes, and drops
// stopwords and single-character tokens.
func contentWords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) < 2 || stopwords[w] {
			continue
		}
		words = append(words, w)
	}
	return words
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// OverlapRatio is the fraction of a's distinct content words that also occur
// in b. An empty a yields 0.0.
func OverlapRatio(a, b string) float64 {
	as := wordSet(contentWords(a))
	if len(as) == 0 {
		return 0.0
	}
	bs := wordSet(contentWords(b))
	shared := 0
	for w := range as {
		if bs[w] {
			shared++
		}
	}
	return float64(shared) / float64(len(as))
}

// Metrics are lexical measurements of a suggestion relative to the original
// question and the passage. They are logged, never used to gate acceptance.
type Metrics struct {
	// QuestionOverlap is the fraction of the original question's content
	// words reused by the suggestion.
	QuestionOverlap float64

	// PassageOverlap is the fraction of the suggestion's content words that
	// appear in the passage.
	PassageOverlap float64

	// Length is the suggestion's length in runes.
	Length int

	// WordCount is the suggestion's whitespace-delimited word count.
	WordCount int

	// HasQuestionMark reports whether the suggestion ends with "?".
	HasQuestionMark bool

	// Empty reports whether the suggestion is blank after trimming.
	Empty bool
}

// MeasureSuggestion computes Metrics for a suggestion against the original
// question and the passage.
func MeasureSuggestion(suggestion, question, passage string) Metrics {
	trimmed := strings.TrimSpace(suggestion)
	return Metrics{
		QuestionOverlap: OverlapRatio(question, suggestion),
		PassageOverlap:  OverlapRatio(suggestion, passage),
		Length:          len([]rune(trimmed)),
		WordCount:       len(strings.Fields(trimmed)),
		HasQuestionMark: strings.HasSuffix(trimmed, "?"),
		Empty:           trimmed == "",
	}
}
