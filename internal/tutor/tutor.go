// Package tutor runs practice sessions: it picks exercises, checks learner
// attempts against the reference solution, and decides which hint to give.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/sqltutor/internal/exercisegen"
	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/hints"
	"github.com/abhisek/sqltutor/internal/similarity"
	"github.com/abhisek/sqltutor/internal/sqldb"
)

// DefaultMaxAttempts is the number of attempts before the solution is shown.
const DefaultMaxAttempts = 3

// ExampleCount is how many bank exercises seed a generation prompt.
const ExampleCount = 3

// ErrNoExercises is returned by Next when a tier has nothing to offer.
var ErrNoExercises = errors.New("no exercises available")

// Runner executes learner and reference queries.
type Runner interface {
	Run(ctx context.Context, query string) (*sqldb.ResultSet, error)
}

// schemaSource is implemented by runners that can describe their tables.
type schemaSource interface {
	Tables(ctx context.Context) ([]sqldb.Table, error)
}

// Options configures a Tutor. Bank and Runner are required.
type Options struct {
	Bank   *exercises.Bank
	Runner Runner

	// Scorer defaults to the lexical scorer.
	Scorer similarity.Provider

	// Hints defaults to a service without an AI provider.
	Hints *hints.Service

	// Generator is optional. Without it a completed tier repeats exercises.
	Generator exercisegen.Generator

	Thresholds  similarity.Thresholds
	MaxAttempts int
	Logger      *zap.Logger

	// Rand drives exercise selection. Defaults to a randomly seeded source.
	Rand *rand.Rand
}

// Tutor holds the state of one learner for the lifetime of the process.
type Tutor struct {
	bank       *exercises.Bank
	runner     Runner
	scorer     similarity.Provider
	hints      *hints.Service
	generator  exercisegen.Generator
	thresholds similarity.Thresholds
	maxAtt     int
	log        *zap.Logger

	mu        sync.Mutex
	rng       *rand.Rand
	completed *exercises.CompletionSet
	tables    []sqldb.Table
}

// New validates opts and returns a Tutor.
func New(opts Options) (*Tutor, error) {
	if opts.Bank == nil {
		return nil, errors.New("tutor: exercise bank is required")
	}
	if opts.Runner == nil {
		return nil, errors.New("tutor: query runner is required")
	}
	if opts.Thresholds == (similarity.Thresholds{}) {
		opts.Thresholds = similarity.DefaultThresholds()
	}
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("tutor: %w", err)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Scorer == nil {
		opts.Scorer = similarity.LexicalScorer{}
	}
	if opts.Hints == nil {
		opts.Hints = hints.NewService(nil, hints.DefaultConfig())
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}

	return &Tutor{
		bank:       opts.Bank,
		runner:     opts.Runner,
		scorer:     opts.Scorer,
		hints:      opts.Hints,
		generator:  opts.Generator,
		thresholds: opts.Thresholds,
		maxAtt:     opts.MaxAttempts,
		log:        opts.Logger.Named("tutor"),
		rng:        opts.Rand,
		completed:  exercises.NewCompletionSet(),
	}, nil
}

// Bank returns the exercise bank, including generated exercises.
func (t *Tutor) Bank() *exercises.Bank { return t.bank }

// MaxAttempts returns the attempt limit per exercise.
func (t *Tutor) MaxAttempts() int { return t.maxAtt }

// AIAvailable reports whether AI hints and feedback are configured.
func (t *Tutor) AIAvailable() bool { return t.hints.Available() }

// NextInfo explains how Next chose its exercise.
type NextInfo struct {
	// Generated is set when the exercise was just created by the AI.
	Generated bool
	// Repeated is set when every exercise was complete and an already
	// solved one was picked again.
	Repeated bool
	// Reason says why a repeat was necessary.
	Reason string
}

// Next selects the next exercise for tier: a random uncompleted one, else
// a freshly generated one, else a random repeat.
func (t *Tutor) Next(ctx context.Context, tier exercises.Tier) (*exercises.Exercise, NextInfo, error) {
	if !tier.Valid() {
		return nil, NextInfo{}, fmt.Errorf("invalid tier %q", tier)
	}

	t.mu.Lock()
	ex, ok := t.bank.Pick(t.rng, tier, func(id string) bool { return t.completed.Done(tier, id) })
	t.mu.Unlock()
	if ok {
		return &ex, NextInfo{}, nil
	}

	reason := "AI exercise generation is not configured"
	if t.generator != nil {
		gen, err := t.generate(ctx, tier)
		if err == nil {
			return gen, NextInfo{Generated: true}, nil
		}
		if ctx.Err() != nil {
			return nil, NextInfo{}, ctx.Err()
		}
		t.log.Warn("exercise generation failed, repeating an exercise",
			zap.String("tier", tier.String()), zap.Error(err))
		reason = err.Error()
	}

	t.mu.Lock()
	ex, ok = t.bank.Pick(t.rng, tier, nil)
	t.mu.Unlock()
	if !ok {
		return nil, NextInfo{}, fmt.Errorf("%w for tier %s", ErrNoExercises, tier)
	}
	return &ex, NextInfo{Repeated: true, Reason: reason}, nil
}

func (t *Tutor) generate(ctx context.Context, tier exercises.Tier) (*exercises.Exercise, error) {
	ex, err := t.generator.Generate(ctx, exercisegen.GenerateInput{
		Tier:           tier,
		Examples:       t.bank.Examples(tier, ExampleCount),
		Tables:         t.schema(ctx),
		PriorQuestions: t.bank.Questions(tier),
		IDTaken:        t.bank.Has,
	})
	if err != nil {
		return nil, err
	}
	if err := t.bank.Add(*ex); err != nil {
		return nil, fmt.Errorf("add generated exercise: %w", err)
	}
	return ex, nil
}

// schema returns the table descriptions sent with generation requests.
// They are loaded once; a failure only makes the prompt less specific.
func (t *Tutor) schema(ctx context.Context) []sqldb.Table {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.tables != nil {
		return t.tables
	}
	src, ok := t.runner.(schemaSource)
	if !ok {
		return nil
	}
	tables, err := src.Tables(ctx)
	if err != nil {
		t.log.Warn("describe schema", zap.Error(err))
		return nil
	}
	t.tables = tables
	return tables
}

// Progress returns how many exercises of tier are solved, and how many
// exist in total.
func (t *Tutor) Progress(tier exercises.Tier) (done, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed.Count(tier), t.bank.Count(tier)
}

// Start begins a practice run of ex with a fresh session id.
func (t *Tutor) Start(ex *exercises.Exercise) *Practice {
	id := uuid.NewString()
	return &Practice{
		tutor:     t,
		exercise:  *ex,
		sessionID: id,
		log: t.log.With(
			zap.String("session", id),
			zap.String("exercise", ex.ID)),
	}
}

func (t *Tutor) markDone(ex exercises.Exercise) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed.Mark(ex.Tier, ex.ID)
}
