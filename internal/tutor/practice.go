package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/sqltutor/internal/compare"
	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/hints"
	"github.com/abhisek/sqltutor/internal/llm"
	"github.com/abhisek/sqltutor/internal/similarity"
	"github.com/abhisek/sqltutor/internal/sqldb"
)

var (
	// ErrAttemptsExhausted is returned by Submit once every attempt has
	// been used or the solution was revealed.
	ErrAttemptsExhausted = errors.New("no attempts left")

	// ErrSolved is returned by Submit after a correct answer.
	ErrSolved = errors.New("exercise already solved")

	// ErrEmptyQuery is returned for blank input. It does not use an attempt.
	ErrEmptyQuery = errors.New("empty query")
)

// Attempt is one submission for an exercise.
type Attempt struct {
	ExerciseID string
	SQL        string
	Number     int
	// Similarity is in [0,1], or negative when it could not be computed.
	Similarity float64
	Correct    bool
}

// Outcome is everything the caller needs to report an attempt.
type Outcome struct {
	Attempt Attempt

	// ExecErr is set when the learner's query failed to run.
	ExecErr *sqldb.QueryExecutionError

	// Result and Expected are the learner and reference result sets.
	// Result is nil when ExecErr is set. Expected is only filled for a
	// wrong answer.
	Result   *sqldb.ResultSet
	Expected *sqldb.ResultSet

	// Reason explains a mismatch, e.g. "expected 3 rows, got 5".
	Reason string

	// HintTier and StaticHint are only meaningful for a wrong answer.
	HintTier   similarity.HintTier
	StaticHint string

	AttemptsLeft int

	// Exhausted is set after the final wrong attempt. Solution then holds
	// the reference query.
	Exhausted bool
	Solution  string
}

// Correct reports whether the attempt was accepted.
func (o *Outcome) Correct() bool { return o.Attempt.Correct }

// Practice is the attempt loop for a single exercise.
type Practice struct {
	tutor     *Tutor
	exercise  exercises.Exercise
	sessionID string
	log       *zap.Logger

	mu        sync.Mutex
	attempts  []Attempt
	last      *Outcome
	solved    bool
	exhausted bool
}

// Exercise returns the exercise being practiced.
func (p *Practice) Exercise() exercises.Exercise { return p.exercise }

// SessionID returns the id that tags this practice's logs and LLM events.
func (p *Practice) SessionID() string { return p.sessionID }

// Attempts returns the submissions so far.
func (p *Practice) Attempts() []Attempt {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Attempt(nil), p.attempts...)
}

// Done reports whether the practice accepts no more submissions.
func (p *Practice) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.solved || p.exhausted
}

// Submit runs sql, compares it with the reference solution and records the
// attempt. A query that fails to run counts as a wrong attempt; a
// cancelled ctx returns ctx.Err() and records nothing.
func (p *Practice) Submit(ctx context.Context, sql string) (*Outcome, error) {
	if strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sql), ";")) == "" {
		return nil, ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.solved:
		return nil, ErrSolved
	case p.exhausted:
		return nil, ErrAttemptsExhausted
	}

	ctx = p.context(ctx)
	t := p.tutor
	out := &Outcome{Attempt: Attempt{
		ExerciseID: p.exercise.ID,
		SQL:        sql,
		Number:     len(p.attempts) + 1,
		Similarity: -1,
	}}

	learner, err := t.runner.Run(ctx, sql)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.As(err, &out.ExecErr) {
			return nil, err
		}
	} else {
		out.Result = learner
		expected, err := t.runner.Run(ctx, p.exercise.Solution)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("run reference solution for %s: %w", p.exercise.ID, err)
		}
		cmp := compare.Compare(learner, expected, compare.OrderSensitive(p.exercise.Solution))
		out.Attempt.Correct = cmp.Equal
		out.Reason = cmp.Reason
		if !cmp.Equal {
			out.Expected = expected
		}
	}

	if out.Attempt.Correct {
		out.Attempt.Similarity = 1
		p.solved = true
		t.markDone(p.exercise)
	} else {
		if score, err := t.scorer.Similarity(ctx, sql, p.exercise.Solution); err != nil {
			p.log.Warn("similarity unavailable", zap.Error(err))
		} else {
			out.Attempt.Similarity = score
		}
		out.HintTier = t.thresholds.Bucket(max(out.Attempt.Similarity, 0))
		out.StaticHint = hints.Static(p.exercise, out.HintTier)
		if out.Attempt.Number >= t.maxAtt {
			p.exhausted = true
			out.Exhausted = true
			out.Solution = p.exercise.Solution
		}
	}

	out.AttemptsLeft = t.maxAtt - out.Attempt.Number
	if p.solved {
		out.AttemptsLeft = 0
	}
	p.attempts = append(p.attempts, out.Attempt)
	p.last = out

	p.log.Info("attempt",
		zap.Int("number", out.Attempt.Number),
		zap.Bool("correct", out.Attempt.Correct),
		zap.Bool("exec_error", out.ExecErr != nil),
		zap.Float64("similarity", out.Attempt.Similarity))
	return out, nil
}

// Hint returns an AI hint for the last attempt and reports whether it came
// from the AI. When the collaborator is unavailable it falls back to the
// built-in hint for the attempt's similarity band.
func (p *Practice) Hint(ctx context.Context) (string, bool) {
	p.mu.Lock()
	last := p.last
	p.mu.Unlock()

	if last == nil {
		if p.exercise.Hint != "" {
			return p.exercise.Hint, false
		}
		return hints.Static(p.exercise, similarity.BroadRedirect), false
	}

	in := hints.HintInput{
		Exercise:   p.exercise,
		SQL:        last.Attempt.SQL,
		Similarity: last.Attempt.Similarity,
		Tier:       last.HintTier,
		Attempt:    last.Attempt.Number,
	}
	if last.ExecErr != nil {
		in.ExecError = last.ExecErr.Error()
	}

	text, err := p.tutor.hints.Hint(p.context(ctx), in)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			p.log.Warn("AI hint unavailable", zap.Error(err))
		}
		return last.StaticHint, false
	}
	return text, true
}

// Feedback returns AI tutor feedback on the last attempt, or a fixed
// message when the collaborator is unavailable.
func (p *Practice) Feedback(ctx context.Context) (string, bool) {
	p.mu.Lock()
	in := hints.FeedbackInput{Exercise: p.exercise, Correct: p.solved}
	if p.last != nil {
		in.SQL = p.last.Attempt.SQL
		if p.last.ExecErr != nil {
			in.ExecError = p.last.ExecErr.Error()
		}
	}
	p.mu.Unlock()

	text, err := p.tutor.hints.Feedback(p.context(ctx), in)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			p.log.Warn("AI feedback unavailable", zap.Error(err))
		}
		return hints.FeedbackUnavailable, false
	}
	return text, true
}

// Reveal ends the practice and returns the reference solution.
func (p *Practice) Reveal() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.solved {
		p.exhausted = true
	}
	return p.exercise.Solution
}

func (p *Practice) context(ctx context.Context) context.Context {
	return llm.WithSession(ctx, p.sessionID)
}
