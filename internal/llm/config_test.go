package llm

import "testing"

func TestValidateRequiresKey(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"openai without key", Config{Provider: "openai"}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-x"}}, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"mock needs nothing", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "cohere"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("BLOOMLAB_LLM_PROVIDER", "anthropic")
	t.Setenv("BLOOMLAB_ANTHROPIC_API_KEY", "key-123")
	t.Setenv("BLOOMLAB_ANTHROPIC_MODEL", "claude-sonnet-4-20250514")

	cfg := ConfigFromEnv()
	if cfg.Provider != "anthropic" {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.Anthropic.APIKey != "key-123" {
		t.Errorf("api key = %q", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("model = %q", cfg.Anthropic.Model)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidateSchemaResponse(t *testing.T) {
	schema := &Schema{
		Name: "taxonomy-label",
		Definition: map[string]any{
			"type":       "object",
			"properties": map[string]any{"level": map[string]any{"type": "string"}},
			"required":   []any{"level"},
		},
	}

	if err := validateResponse(schema, []byte(`{"level":"analyze"}`)); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
	if err := validateResponse(schema, []byte(`{"depth":3}`)); err == nil {
		t.Error("payload missing required field was accepted")
	}
	if err := validateResponse(schema, []byte(`not json`)); err == nil {
		t.Error("malformed JSON was accepted")
	}
}
