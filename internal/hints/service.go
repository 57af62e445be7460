// Package hints produces progressive hints and tutor feedback for a
// learner's attempt, using the AI collaborator when one is configured.
package hints

import (
	"context"
	"errors"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/llm"
	"github.com/abhisek/sqltutor/internal/similarity"
)

// HintInput describes the attempt a hint is requested for.
type HintInput struct {
	Exercise exercises.Exercise
	SQL      string
	// ExecError is the engine message when the attempt did not run.
	ExecError string
	// Similarity is the score in [0,1], or negative when unknown.
	Similarity float64
	Tier       similarity.HintTier
	Attempt    int
}

// FeedbackInput describes the attempt feedback is requested for.
type FeedbackInput struct {
	Exercise  exercises.Exercise
	SQL       string
	ExecError string
	Correct   bool
}

// Service asks the LLM for hints and feedback. A Service with a nil
// provider is valid and always reports the collaborator as unavailable.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a hint service. provider may be nil.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Available reports whether an AI provider is configured.
func (s *Service) Available() bool {
	return s != nil && s.provider != nil
}

// Hint returns a short AI hint. Any failure is reported as
// *llm.CollaboratorUnavailableError; callers fall back to Static.
func (s *Service) Hint(ctx context.Context, in HintInput) (string, error) {
	return s.ask(llm.WithPurpose(ctx, "hint"), "hint", llm.Request{
		System:      hintSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildHintUserMessage(in)}},
		MaxTokens:   s.cfg.HintMaxTokens,
		Temperature: s.cfg.Temperature,
	})
}

// Feedback returns longer tutor feedback on an attempt, with the same
// failure contract as Hint.
func (s *Service) Feedback(ctx context.Context, in FeedbackInput) (string, error) {
	return s.ask(llm.WithPurpose(ctx, "feedback"), "feedback", llm.Request{
		System:      feedbackSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildFeedbackUserMessage(in)}},
		MaxTokens:   s.cfg.FeedbackMaxTokens,
		Temperature: s.cfg.Temperature,
	})
}

func (s *Service) ask(ctx context.Context, purpose string, req llm.Request) (string, error) {
	if !s.Available() {
		return "", llm.Unavailable(purpose, llm.ErrNotConfigured)
	}
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", llm.Unavailable(purpose, err)
	}
	text := resp.Text()
	if text == "" {
		return "", llm.Unavailable(purpose, errors.New("empty reply"))
	}
	return text, nil
}
