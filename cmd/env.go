package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/sqltutor/internal/config"
	"github.com/abhisek/sqltutor/internal/exercisegen"
	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/hints"
	"github.com/abhisek/sqltutor/internal/llm"
	"github.com/abhisek/sqltutor/internal/logging"
	"github.com/abhisek/sqltutor/internal/similarity"
	"github.com/abhisek/sqltutor/internal/sqldb"
	"github.com/abhisek/sqltutor/internal/store"
	"github.com/abhisek/sqltutor/internal/tutor"
)

// env holds the services opened for one command invocation.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	sample   *sqldb.DB
	bank     *exercises.Bank
	provider llm.Provider

	closers []func() error
}

// Close releases everything the env opened, newest first.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
	e.closers = nil
}

// loadConfig reads the config file and applies the persistent flag
// overrides on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DB.Path = v
	}
	if v, _ := cmd.Flags().GetString("sample-db"); v != "" {
		cfg.SampleDB.Path = v
	}
	if v, _ := cmd.Flags().GetString("exercises"); v != "" {
		cfg.Exercises.Path = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEnv loads configuration and builds the logger. Databases are opened
// on demand by the open* methods.
func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Logging(false))
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	e := &env{cfg: cfg, log: log}
	e.closers = append(e.closers, func() error {
		_ = log.Sync()
		return nil
	})
	log.Debug("config loaded", zap.String("file", cfg.File))
	return e, nil
}

func (e *env) openStore() error {
	path, err := e.cfg.StatePath()
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	if err := store.EnsureDir(path); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st.Close)
	return nil
}

func (e *env) openSample() error {
	path, err := e.cfg.SamplePath()
	if err != nil {
		return fmt.Errorf("resolve sample DB path: %w", err)
	}
	db, err := sqldb.Open(path, sqldb.WithQueryTimeout(e.cfg.SampleDB.QueryTimeout))
	if err != nil {
		return err
	}
	e.sample = db
	e.closers = append(e.closers, db.Close)
	return nil
}

func (e *env) loadBank() error {
	var (
		bank *exercises.Bank
		err  error
	)
	if p := e.cfg.Exercises.Path; p != "" {
		bank, err = exercises.LoadFile(p)
	} else {
		bank, err = exercises.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load exercises: %w", err)
	}
	e.bank = bank
	return nil
}

// openProvider builds the LLM provider. A missing or broken provider is
// not an error: AI features fall back to static content.
func (e *env) openProvider(ctx context.Context) {
	var repo store.EventRepo
	if e.store != nil {
		repo = e.store.EventRepo()
	}

	p, err := llm.NewProvider(ctx, e.cfg.LLMProvider(), repo, e.log)
	switch {
	case err == nil:
		e.provider = p
		e.log.Info("AI provider ready", zap.String("model", p.ModelID()))
	case errors.Is(err, llm.ErrNotConfigured):
		e.log.Info("no AI provider configured")
	default:
		e.log.Warn("AI provider unavailable", zap.Error(err))
		fmt.Fprintln(os.Stderr, "AI provider not available:", err)
		fmt.Fprintln(os.Stderr, "AI hints and exercise generation will be disabled.")
	}
}

// newScorer returns the similarity scorer: embeddings when configured,
// lexical otherwise.
func (e *env) newScorer(ctx context.Context) similarity.Provider {
	embedder, err := llm.NewEmbedder(ctx, e.cfg.EmbeddingProvider())
	if err != nil {
		e.log.Warn("embedding provider unavailable, scoring lexically", zap.Error(err))
		return similarity.LexicalScorer{}
	}
	if embedder == nil {
		return similarity.LexicalScorer{}
	}

	var cache store.EmbeddingCache
	if e.store != nil {
		cache = e.store.EmbeddingCache()
	}
	return similarity.New(embedder, cache, e.log.Named("similarity"))
}

// openTutor opens everything a practice session needs and builds the
// tutor on top of it.
func openTutor(cmd *cobra.Command) (*env, *tutor.Tutor, error) {
	ctx := cmd.Context()
	e, err := newEnv(cmd)
	if err != nil {
		return nil, nil, err
	}

	steps := []func() error{e.openSample, e.openStore, e.loadBank}
	for _, step := range steps {
		if err := step(); err != nil {
			e.Close()
			return nil, nil, err
		}
	}
	e.openProvider(ctx)

	opts := tutor.Options{
		Bank:        e.bank,
		Runner:      e.sample,
		Scorer:      e.newScorer(ctx),
		Hints:       hints.NewService(e.provider, hints.DefaultConfig()),
		Thresholds:  e.cfg.Tutor.Thresholds,
		MaxAttempts: e.cfg.Tutor.MaxAttempts,
		Logger:      e.log,
	}
	if e.provider != nil && e.cfg.Tutor.Generate {
		gcfg := exercisegen.DefaultConfig(e.sample)
		gcfg.Logger = e.log
		opts.Generator = exercisegen.New(e.provider, gcfg)
	}

	t, err := tutor.New(opts)
	if err != nil {
		e.Close()
		return nil, nil, err
	}
	return e, t, nil
}

// terminalWidth returns the width of stdout, or 80 when it is not a
// terminal.
func terminalWidth() int {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
