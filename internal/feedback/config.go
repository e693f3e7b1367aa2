package feedback

// Config tunes the feedback generator.
type Config struct {
	// MaxAttempts bounds suggestion attempts that return unusable text
	// (empty or malformed). Transport-level retries are handled by the
	// provider's retry decorator underneath.
	MaxAttempts int

	// MaxTokens bounds each generation response.
	MaxTokens int

	// Temperature for suggestion generation. Classification always runs
	// at zero temperature.
	Temperature float64

	// TargetMinChars and TargetMaxChars express the requested suggestion
	// length. They are prompt guidance, not acceptance criteria.
	TargetMinChars int
	TargetMaxChars int
}

// DefaultConfig returns the generator defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		MaxTokens:      256,
		Temperature:    0.7,
		TargetMinChars: 65,
		TargetMaxChars: 75,
	}
}
