package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"bloomlab/internal/assign"
	"bloomlab/internal/llm"
)

// Source records how a suggestion was produced.
type Source string

const (
	// SourceGenerated means the model produced a usable suggestion.
	SourceGenerated Source = "generated"

	// SourceFallback means generation attempts were exhausted and a local
	// template filled in.
	SourceFallback Source = "fallback"

	// SourcePlaceholder means the provider's quota was exhausted and a
	// labeled placeholder stands in for the suggestion.
	SourcePlaceholder Source = "placeholder"
)

// placeholderSuggestion is shown when the provider refuses all requests.
// It is honest about being unavailable rather than pretending to be feedback.
const placeholderSuggestion = "[Suggestion unavailable: the generation service is temporarily over its limit.]"

// Output is the full result of one feedback round.
type Output struct {
	// Level is the Bloom classification of the participant's question.
	Level Level

	// Suggestion is the revised question shown to the participant.
	Suggestion string

	// Source tags how Suggestion was produced.
	Source Source

	// Attempts counts generation calls made for the suggestion.
	Attempts int

	// Metrics are lexical measurements of the suggestion.
	Metrics Metrics
}

// Service runs classification and suggestion generation over an llm.Provider.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
	rng      *rand.Rand
}

// NewService creates a Service. A nil logger disables diagnostics.
func NewService(provider llm.Provider, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	now := uint64(time.Now().UnixNano())
	return &Service{
		provider: provider,
		cfg:      cfg,
		log:      log,
		rng:      rand.New(rand.NewPCG(now, now>>32)),
	}
}

// Classify labels the participant's question with a Bloom taxonomy level.
// Any failure degrades to the lowest level rather than blocking the trial.
func (s *Service) Classify(ctx context.Context, passage, question string) Level {
	ctx = llm.WithPurpose(ctx, "classify")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: classifySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: classifyUserMessage(passage, question)},
		},
		Schema:    classifySchema,
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		s.log.Warn("classification failed, defaulting to lowest level", zap.Error(err))
		return LevelRemember
	}

	var out struct {
		Level string `json:"level"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		s.log.Warn("classification payload unreadable", zap.Error(err))
		return LevelRemember
	}
	return ParseLevel(out.Level)
}

// Suggest generates a revised question under the given condition. It retries
// unusable output up to the attempt bound, then synthesizes a local fallback.
// Provider quota exhaustion short-circuits to a labeled placeholder.
func (s *Service) Suggest(ctx context.Context, cond assign.Condition, passage, question string) (string, Source, int) {
	ctx = llm.WithPurpose(ctx, "suggest")

	var system string
	switch cond {
	case assign.ConditionReinforcing:
		system = reinforcingSystemPrompt(s.cfg)
	case assign.ConditionDivergent:
		system = divergentSystemPrompt(s.cfg)
	}

	attempts := 0
	for attempts < s.cfg.MaxAttempts {
		attempts++

		resp, err := s.provider.Generate(ctx, llm.Request{
			System: system,
			Messages: []llm.Message{
				{Role: llm.RoleUser, Content: suggestUserMessage(passage, question)},
			},
			Schema:      suggestSchema,
			MaxTokens:   s.cfg.MaxTokens,
			Temperature: s.cfg.Temperature,
		})
		if err != nil {
			var rateLimit *llm.ErrRateLimit
			if errors.As(err, &rateLimit) {
				s.log.Warn("provider quota exhausted, using placeholder", zap.Error(err))
				return placeholderSuggestion, SourcePlaceholder, attempts
			}
			s.log.Warn("suggestion attempt failed",
				zap.Int("attempt", attempts), zap.Error(err))
			continue
		}

		var out struct {
			Question string `json:"question"`
		}
		if err := json.Unmarshal(resp.Content, &out); err != nil {
			s.log.Warn("suggestion payload unreadable",
				zap.Int("attempt", attempts), zap.Error(err))
			continue
		}

		text := strings.TrimSpace(out.Question)
		if text == "" {
			continue
		}
		if !strings.HasSuffix(text, "?") {
			text += "?"
		}
		return text, SourceGenerated, attempts
	}

	s.log.Info("suggestion attempts exhausted, using local template",
		zap.Int("attempts", attempts), zap.String("condition", string(cond)))
	switch cond {
	case assign.ConditionDivergent:
		return fallbackDivergent(s.rng), SourceFallback, attempts
	default:
		return fallbackReinforcing(question), SourceFallback, attempts
	}
}

// Generate runs the full feedback round: classify the question, generate a
// condition-controlled suggestion, and measure it.
func (s *Service) Generate(ctx context.Context, cond assign.Condition, passage, question string) (*Output, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("feedback: question is empty")
	}

	level := s.Classify(ctx, passage, question)
	suggestion, source, attempts := s.Suggest(ctx, cond, passage, question)

	return &Output{
		Level:      level,
		Suggestion: suggestion,
		Source:     source,
		Attempts:   attempts,
		Metrics:    MeasureSuggestion(suggestion, question, passage),
	}, nil
}
