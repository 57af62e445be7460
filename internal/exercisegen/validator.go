package exercisegen

import (
	"context"
	"fmt"

	"github.com/abhisek/sqltutor/internal/exercises"
)

// Validator checks a generated exercise.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural" or "execution".
	Name() string

	// Validate returns nil if ex passes the check.
	Validate(ctx context.Context, ex *exercises.Exercise, input GenerateInput) *ValidationError
}

// ValidationError describes why an exercise failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
