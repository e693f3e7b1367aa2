package llm

import (
	"context"
	"time"
)

// RequestRecord captures one provider call for the run's event trail.
type RequestRecord struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// Recorder receives a RequestRecord for every provider call. The session's
// event logger implements this; recording must never fail the request.
type Recorder interface {
	RecordLLMRequest(rec RequestRecord)
}

// LoggingProvider records every call as an event. Decorator; wrap with
// WithLogging before WithRetry so each attempt is recorded individually.
type LoggingProvider struct {
	inner    Provider
	recorder Recorder
}

// WithLogging wraps a Provider with request recording.
func WithLogging(p Provider, rec Recorder) Provider {
	return &LoggingProvider{inner: p, recorder: rec}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	rec := RequestRecord{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.Model = resp.Model
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	if l.recorder != nil {
		l.recorder.RecordLLMRequest(rec)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
