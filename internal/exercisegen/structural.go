package exercisegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/similarity"
)

const (
	maxQuestionLen = 500
	maxSolutionLen = 2000
	maxHintLen     = 300
	minConcepts    = 2
	maxConcepts    = 4
)

// writeKeywords may not appear anywhere in a generated solution.
var writeKeywords = map[string]bool{
	"insert": true, "update": true, "delete": true, "drop": true,
	"alter": true, "create": true, "attach": true, "detach": true,
	"pragma": true, "vacuum": true, "reindex": true, "truncate": true,
}

// StructuralValidator checks that the fields are present and within length
// limits and that the solution is one read-only query.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(_ context.Context, ex *exercises.Exercise, _ GenerateInput) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	switch {
	case strings.TrimSpace(ex.Question) == "":
		return fail("question is empty")
	case len(ex.Question) > maxQuestionLen:
		return fail("question exceeds %d characters", maxQuestionLen)
	case strings.TrimSpace(ex.Solution) == "":
		return fail("solution is empty")
	case len(ex.Solution) > maxSolutionLen:
		return fail("solution exceeds %d characters", maxSolutionLen)
	case len(ex.Hint) > maxHintLen:
		return fail("hint exceeds %d characters", maxHintLen)
	case len(ex.Concepts) < minConcepts || len(ex.Concepts) > maxConcepts:
		return fail("expected %d-%d concepts, got %d", minConcepts, maxConcepts, len(ex.Concepts))
	}
	for _, c := range ex.Concepts {
		if strings.TrimSpace(c) == "" {
			return fail("concept is empty")
		}
	}

	stmt := strings.TrimSuffix(strings.TrimSpace(ex.Solution), ";")
	if strings.Contains(stmt, ";") {
		return fail("solution must be a single statement")
	}

	tokens := similarity.Tokenize(stmt)
	if len(tokens) == 0 {
		return fail("solution is empty")
	}
	if first := strings.ToLower(tokens[0]); first != "select" && first != "with" {
		return fail("solution must start with SELECT or WITH, got %q", tokens[0])
	}
	for _, tok := range tokens {
		if writeKeywords[strings.ToLower(tok)] {
			return fail("solution must be read-only, found %q", strings.ToUpper(tok))
		}
	}
	return nil
}
