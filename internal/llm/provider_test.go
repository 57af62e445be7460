package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockText("Check the GROUP BY clause."),
		MockResponse{Content: json.RawMessage(`{"question":"q"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
	)

	first, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hint"}}})
	require.NoError(t, err)
	assert.Equal(t, "Check the GROUP BY clause.", first.Text())
	assert.Equal(t, "end", first.StopReason)

	second, err := mock.Generate(context.Background(), Request{System: "sys"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"question":"q"}`, string(second.Content))
	assert.Equal(t, 10, second.Usage.InputTokens)

	assert.Equal(t, 2, mock.CallCount())
	assert.Equal(t, "sys", mock.LastCall().System)
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
}

func TestMockProvider_ConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "mock", mock.ModelID())
}

func TestResponseText(t *testing.T) {
	var nilResp *Response
	assert.Equal(t, "", nilResp.Text())
	assert.Equal(t, "use JOIN", (&Response{Content: json.RawMessage("\n use JOIN \n")}).Text())
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, "", SessionFrom(ctx))

	ctx = WithSession(WithPurpose(ctx, "hint"), "sess-1")
	assert.Equal(t, "hint", PurposeFrom(ctx))
	assert.Equal(t, "sess-1", SessionFrom(ctx))
}

func TestCollaboratorUnavailable(t *testing.T) {
	cause := &ErrProviderUnavailable{Err: errors.New("connection refused")}
	err := fmt.Errorf("hint: %w", Unavailable("hint", cause))

	assert.True(t, IsUnavailable(err))
	var cu *CollaboratorUnavailableError
	require.ErrorAs(t, err, &cu)
	assert.Equal(t, "hint", cu.Purpose)

	var pu *ErrProviderUnavailable
	assert.ErrorAs(t, err, &pu, "cause must stay reachable")

	notConfigured := Unavailable("feedback", nil)
	assert.ErrorIs(t, notConfigured, ErrNotConfigured)
	assert.False(t, IsUnavailable(errors.New("plain")))
}
