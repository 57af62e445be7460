package exercisegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/llm"
)

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger

	mu  sync.Mutex
	seq map[exercises.Tier]int
}

// New creates an LLMGenerator. A nil provider yields a generator that
// always reports the collaborator as unavailable.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &LLMGenerator{
		provider: provider,
		config:   cfg,
		log:      log.Named("exercisegen"),
		seq:      make(map[exercises.Tier]int),
	}
}

// exerciseOutput is the raw LLM response before validation.
type exerciseOutput struct {
	Question string   `json:"question"`
	Solution string   `json:"solution"`
	Concepts []string `json:"concepts"`
	Hint     string   `json:"hint"`
}

// Generate produces a single exercise. Provider failures are returned as
// *llm.CollaboratorUnavailableError. Validation failures are returned as
// *ValidationError after the retry budget is spent.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*exercises.Exercise, error) {
	if g.provider == nil {
		return nil, llm.Unavailable("exercise-gen", llm.ErrNotConfigured)
	}
	ctx = llm.WithPurpose(ctx, "exercise-gen")

	var rejected []string
	var lastErr *ValidationError
	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		ex, verr, err := g.generateOnce(ctx, input, rejected)
		if err != nil {
			return nil, err
		}
		if verr == nil {
			ex.ID = g.nextID(input.Tier, input.IDTaken)
			g.log.Info("generated exercise",
				zap.String("id", ex.ID),
				zap.String("tier", input.Tier.String()),
				zap.Int("attempt", attempt+1))
			return ex, nil
		}

		g.log.Warn("generated exercise rejected",
			zap.String("validator", verr.Validator),
			zap.String("reason", verr.Message),
			zap.Int("attempt", attempt+1))
		lastErr = verr
		if !verr.Retryable {
			break
		}
		rejected = append(rejected, verr.Message)
	}
	return nil, lastErr
}

func (g *LLMGenerator) generateOnce(ctx context.Context, input GenerateInput, rejected []string) (*exercises.Exercise, *ValidationError, error) {
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config, rejected)},
		},
		Schema:      ExerciseSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil, err
		}
		return nil, nil, llm.Unavailable("exercise-gen", err)
	}

	var raw exerciseOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &ValidationError{
			Validator: "parse",
			Message:   fmt.Sprintf("response is not valid JSON: %v", err),
			Retryable: true,
		}, nil
	}

	ex := &exercises.Exercise{
		Tier:      input.Tier,
		Question:  strings.TrimSpace(raw.Question),
		Solution:  strings.TrimSpace(raw.Solution),
		Concepts:  raw.Concepts,
		Hint:      strings.TrimSpace(raw.Hint),
		Generated: true,
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(ctx, ex, input); verr != nil {
			return nil, verr, nil
		}
	}
	return ex, nil, nil
}

// nextID returns the next free "<tier initial>gen<n>" id, e.g. "bgen1".
func (g *LLMGenerator) nextID(t exercises.Tier, taken func(string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		g.seq[t]++
		id := fmt.Sprintf("%sgen%d", t.Initial(), g.seq[t])
		if taken == nil || !taken(id) {
			return id
		}
	}
}
