package exercisegen

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/sqldb"
)

// Runner executes a query against the sample database.
type Runner interface {
	Run(ctx context.Context, query string) (*sqldb.ResultSet, error)
}

// ExecutionValidator runs the solution and requires at least one row, so
// that every generated exercise has an answer a learner can reproduce.
type ExecutionValidator struct {
	Runner Runner
}

func (v *ExecutionValidator) Name() string { return "execution" }

func (v *ExecutionValidator) Validate(ctx context.Context, ex *exercises.Exercise, _ GenerateInput) *ValidationError {
	if v.Runner == nil {
		return &ValidationError{Validator: v.Name(), Message: "no database to run the solution against"}
	}

	rs, err := v.Runner.Run(ctx, ex.Solution)
	if err != nil {
		var qe *sqldb.QueryExecutionError
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("solution failed: %v", err),
			Retryable: errors.As(err, &qe) && ctx.Err() == nil,
		}
	}
	if rs.Len() == 0 {
		return &ValidationError{Validator: v.Name(), Message: "solution returns no rows", Retryable: true}
	}
	return nil
}
