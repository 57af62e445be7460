// Package exercisegen asks the AI collaborator for new practice exercises
// once a learner has completed every exercise in a tier.
package exercisegen

import (
	"context"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/sqldb"
)

// Generator produces new exercises.
type Generator interface {
	// Generate returns a validated exercise for input.Tier, or an error.
	// All configured validators pass before an exercise is returned.
	Generate(ctx context.Context, input GenerateInput) (*exercises.Exercise, error)
}

// GenerateInput holds the context sent with a generation request.
type GenerateInput struct {
	Tier exercises.Tier

	// Examples are existing exercises of the same tier, shown to the model
	// to calibrate difficulty and style.
	Examples []exercises.Exercise

	// Tables describes the sample database the solution must run against.
	Tables []sqldb.Table

	// PriorQuestions holds every question already in the tier. A generated
	// question must not repeat one of them.
	PriorQuestions []string

	// IDTaken reports whether an id is already used. May be nil.
	IDTaken func(id string) bool
}
