package exercisegen

import "go.uber.org/zap"

// MaxValidationRetries is how many times a retryable validation failure
// triggers a fresh request before Generate gives up.
const MaxValidationRetries = 2

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated exercise. The first
	// failure stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxRetries bounds regeneration after retryable validation failures.
	MaxRetries int

	// MaxExamples is the maximum number of example exercises in the prompt.
	MaxExamples int

	// MaxPriorQuestions is the maximum number of prior questions listed
	// in the prompt.
	MaxPriorQuestions int

	Logger *zap.Logger
}

// DefaultConfig returns a Config with the standard validator chain. The
// execution validator runs the solution against runner.
func DefaultConfig(runner Runner) Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DuplicateValidator{},
			&ExecutionValidator{Runner: runner},
		},
		MaxTokens:         1024,
		Temperature:       0.7,
		MaxRetries:        MaxValidationRetries,
		MaxExamples:       3,
		MaxPriorQuestions: 20,
	}
}
