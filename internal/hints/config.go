package hints

// Config holds hint and feedback generation settings.
type Config struct {
	HintMaxTokens     int
	FeedbackMaxTokens int
	Temperature       float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HintMaxTokens:     300,
		FeedbackMaxTokens: 500,
		Temperature:       0.4,
	}
}
