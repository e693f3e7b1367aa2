package feedback

import (
	"fmt"
	"math/rand/v2"
)

// divergentFallbacks are passage-agnostic prompts used when generation fails
// under the divergent condition. Each points the reader away from their
// original framing.
var divergentFallbacks = []string{
	"What question would a researcher from a completely different field ask about this text?",
	"Which assumption in this text, if overturned, would change its conclusion the most?",
	"What new study could test whether this text's central claim holds in another context?",
	"What is the most surprising implication of this text that it never states directly?",
	"How might the ideas in this text combine with an unrelated domain to produce something new?",
}

// fallbackReinforcing builds a deepening question around a content word of
// the original question. Falls back to a generic form when the question has
// no content words.
func fallbackReinforcing(question string) string {
	words := contentWords(question)
	if len(words) == 0 {
		return "What new hypothesis could extend the idea behind your question?"
	}
	// The last content word tends to carry the question's focus.
	return fmt.Sprintf("What new research direction could build on the idea of %q in your question?", words[len(words)-1])
}

// fallbackDivergent picks uniformly from the fixed pool.
func fallbackDivergent(rng *rand.Rand) string {
	return divergentFallbacks[rng.IntN(len(divergentFallbacks))]
}
