package practice

import (
	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/tutor"
)

// exerciseReadyMsg is sent when the next exercise has been picked or
// generated.
type exerciseReadyMsg struct {
	Exercise *exercises.Exercise
	Info     tutor.NextInfo
	Err      error
}

// submitDoneMsg carries the outcome of a submitted query.
type submitDoneMsg struct {
	SessionID string
	Outcome   *tutor.Outcome
	Err       error
}

// hintReadyMsg carries a hint, from the AI or the built-in fallback.
// SessionID names the practice it was requested for; replies for an
// earlier exercise are dropped.
type hintReadyMsg struct {
	SessionID string
	Text      string
	FromAI    bool
}

// feedbackReadyMsg carries tutor feedback on the last attempt.
type feedbackReadyMsg struct {
	SessionID string
	Text      string
	FromAI    bool
}
