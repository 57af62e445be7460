package exercisegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/sqltutor/internal/exercises"
)

// DuplicateValidator rejects a question that repeats one already in the
// tier, ignoring case, spacing and trailing punctuation.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(_ context.Context, ex *exercises.Exercise, input GenerateInput) *ValidationError {
	q := questionKey(ex.Question)
	for _, prior := range input.PriorQuestions {
		if questionKey(prior) == q {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question repeats %q", prior),
				Retryable: true,
			}
		}
	}
	return nil
}

func questionKey(q string) string {
	q = strings.Join(strings.Fields(strings.ToLower(q)), " ")
	return strings.TrimRight(q, ".?! ")
}

// buildDedup formats prior questions for the prompt, keeping the most
// recent max. Returns "None" if there are none.
func buildDedup(priorQuestions []string, max int) string {
	if len(priorQuestions) == 0 {
		return "None"
	}
	if max > 0 && len(priorQuestions) > max {
		priorQuestions = priorQuestions[len(priorQuestions)-max:]
	}

	var b strings.Builder
	for i, q := range priorQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
