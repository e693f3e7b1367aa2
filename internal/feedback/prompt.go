package feedback

import (
	"fmt"

	"bloomlab/internal/llm"
)

const classifySystemPrompt = `You classify a reader's question about a text passage into one level of
Bloom's taxonomy: remember, understand, apply, analyze, evaluate, create.

Level guide with worked examples:
- remember: recalls stated content. "What year did the bridge collapse?"
- understand: answerable from the text; asks for facts or definitions.
  "What does the author mean by dynamic equivalence?"
- apply: asks for additional detail beyond the text or transfers the idea
  to a similar situation. "Would the same method work for river deltas?"
- analyze: probes relations between elements, causes, or the author's
  intent. "Why does the author contrast sampling error with bias?"
- evaluate: proposes a judgment or critique grounded in prior knowledge.
  "Is the evidence here strong enough to support the policy claim?"
- create: proposes a research hypothesis or a new direction of inquiry.
  "Could glial modulation be harnessed to treat synaptic disorders?"

Respond with the single best level for the question.`

func classifyUserMessage(passage, question string) string {
	return fmt.Sprintf("Passage:\n%s\n\nReader's question:\n%s", passage, question)
}

// classifySchema constrains classification output to a single taxonomy label.
var classifySchema = &llm.Schema{
	Name:        "taxonomy-level",
	Description: "Bloom taxonomy classification of a reader's question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"level": map[string]any{
				"type": "string",
				"enum": []any{"remember", "understand", "apply", "analyze", "evaluate", "create"},
			},
		},
		"required":             []any{"level"},
		"additionalProperties": false,
	},
}

func reinforcingSystemPrompt(cfg Config) string {
	return fmt.Sprintf(`You help a reader deepen their question about a text passage.

Write ONE revised question that builds directly on the reader's original
question: reuse its key terms and extend its concept toward the "create"
level of Bloom's taxonomy (a creative hypothesis or new research direction).

Constraints:
- a single sentence of %d-%d characters
- must end with a question mark
- must visibly incorporate the original question's central term or idea

Respond with only the revised question.`, cfg.TargetMinChars, cfg.TargetMaxChars)
}

func divergentSystemPrompt(cfg Config) string {
	return fmt.Sprintf(`You help a reader see a text passage from a fresh angle.

Write ONE new question about the same passage that deliberately AVOIDS the
key terms and the approach of the reader's original question, exploring a
facet of the passage the original did not touch, at the "create" level of
Bloom's taxonomy (a creative hypothesis or new research direction).

Constraints:
- a single sentence of %d-%d characters
- must end with a question mark
- must not reuse the original question's central terms

Respond with only the new question.`, cfg.TargetMinChars, cfg.TargetMaxChars)
}

func suggestUserMessage(passage, question string) string {
	return fmt.Sprintf("Passage:\n%s\n\nReader's original question:\n%s", passage, question)
}

// suggestSchema wraps the generated question so structured output can be
// validated uniformly across providers.
var suggestSchema = &llm.Schema{
	Name:        "revised-question",
	Description: "A single suggested revision of the reader's question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
		},
		"required":             []any{"question"},
		"additionalProperties": false,
	},
}
