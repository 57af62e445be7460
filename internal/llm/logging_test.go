package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/sqltutor/internal/store"
)

func openEventStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWithLogging_RecordsEvents(t *testing.T) {
	s := openEventStore(t)
	core, logs := observer.New(zap.InfoLevel)

	mock := NewMockProvider(
		MockResponse{Content: []byte("Use LEFT JOIN."), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, "mock", s.EventRepo(), zap.New(core))

	ctx := WithSession(WithPurpose(context.Background(), "hint"), "sess-42")
	_, err := p.Generate(ctx, Request{System: "tutor", Messages: []Message{{Role: RoleUser, Content: "why?"}}})
	require.NoError(t, err)
	_, err = p.Generate(WithPurpose(context.Background(), "feedback"), Request{})
	require.Error(t, err)

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	// newest first
	failed, ok := events[0], events[1]
	assert.False(t, failed.Success)
	assert.Equal(t, "feedback", failed.Purpose)
	assert.Contains(t, failed.ErrorMessage, "down")

	assert.True(t, ok.Success)
	assert.Equal(t, "hint", ok.Purpose)
	assert.Equal(t, "sess-42", ok.SessionID)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, "Use LEFT JOIN.", ok.ResponseBody)
	assert.Contains(t, ok.RequestBody, "[system]\ntutor")
	assert.Contains(t, ok.RequestBody, "[user]\nwhy?")

	assert.Equal(t, 1, logs.FilterMessage("llm request").Len())
	assert.Equal(t, 1, logs.FilterMessage("llm request failed").Len())
}

func TestWithLogging_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockText("ok")), "mock", nil, nil)
	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())
	assert.Equal(t, "mock", p.ModelID())
}

func TestSerializeRequest_Schema(t *testing.T) {
	out := serializeRequest(Request{Schema: exerciseTestSchema()})
	assert.Contains(t, out, "[schema: test-exercise]")
	assert.Contains(t, out, `"question"`)
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{}, nil, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	cfg := DefaultConfig()
	cfg.Provider = "openai"
	cfg.OpenAI.APIKey = "sk"
	p, err = NewProvider(context.Background(), cfg, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())
}
