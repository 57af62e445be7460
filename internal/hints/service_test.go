package hints

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/llm"
	"github.com/abhisek/sqltutor/internal/similarity"
)

var canada = exercises.Exercise{
	ID:       "b2",
	Tier:     exercises.Beginner,
	Question: "How many customers are from Canada?",
	Solution: "SELECT COUNT(*) FROM customers WHERE country = 'Canada';",
	Concepts: []string{"COUNT", "WHERE"},
	Hint:     "Filter on the country column.",
}

func TestHint_UsesProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("  Look at the value you compare country with.  "))
	s := NewService(mock, DefaultConfig())

	got, err := s.Hint(context.Background(), HintInput{
		Exercise:   canada,
		SQL:        "SELECT COUNT(*) FROM customers WHERE country = 'USA'",
		Similarity: 0.91,
		Tier:       similarity.NearMiss,
		Attempt:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Look at the value you compare country with.", got)

	req := mock.LastCall()
	assert.Equal(t, 300, req.MaxTokens)
	assert.Nil(t, req.Schema)
	msg := req.Messages[0].Content
	for _, want := range []string{
		"Question: How many customers are from Canada?",
		"Required concepts: COUNT, WHERE",
		"Student's query: SELECT COUNT(*) FROM customers WHERE country = 'USA'",
		"Similarity score: 0.91",
		"Attempt number: 2",
		"VERY CLOSE",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestHint_UnknownSimilarityAndExecError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("Check your spelling of SELECT."))
	s := NewService(mock, DefaultConfig())

	_, err := s.Hint(context.Background(), HintInput{
		Exercise:   canada,
		SQL:        "SELEC COUNT(*) FROM customers",
		ExecError:  `near "SELEC": syntax error`,
		Similarity: -1,
		Tier:       similarity.BroadRedirect,
		Attempt:    1,
	})
	require.NoError(t, err)

	msg := mock.LastCall().Messages[0].Content
	assert.NotContains(t, msg, "Similarity score")
	assert.Contains(t, msg, "syntax error")
	assert.Contains(t, msg, "without giving the answer")
}

func TestHint_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		svc  *Service
	}{
		{"no provider", NewService(nil, DefaultConfig())},
		{"provider error", NewService(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}}), DefaultConfig())},
		{"empty reply", NewService(llm.NewMockProvider(llm.MockText("   ")), DefaultConfig())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.Hint(context.Background(), HintInput{Exercise: canada, Attempt: 1})
			var cu *llm.CollaboratorUnavailableError
			require.ErrorAs(t, err, &cu)
			assert.Equal(t, "hint", cu.Purpose)
		})
	}
	assert.ErrorIs(t, func() error {
		_, err := NewService(nil, DefaultConfig()).Feedback(context.Background(), FeedbackInput{Exercise: canada})
		return err
	}(), llm.ErrNotConfigured)
}

func TestFeedback(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("Nice use of **COUNT**."))
	s := NewService(mock, DefaultConfig())
	require.True(t, s.Available())

	got, err := s.Feedback(context.Background(), FeedbackInput{Exercise: canada, SQL: canada.Solution, Correct: true})
	require.NoError(t, err)
	assert.Equal(t, "Nice use of **COUNT**.", got)

	req := mock.LastCall()
	assert.Equal(t, 500, req.MaxTokens)
	assert.Contains(t, req.Messages[0].Content, "Result: Correct")
}

func TestStatic(t *testing.T) {
	tests := []struct {
		tier similarity.HintTier
		want string
	}{
		{similarity.NearMiss, "You're very close! Check your column names or table joins."},
		{similarity.Structural, "You're on the right track. Review the required columns and conditions."},
		{similarity.Conceptual, "You have some correct elements. Check the SQL clauses you're using."},
		{similarity.BroadRedirect, "Try a different approach. Remember the concepts: COUNT, WHERE"},
	}
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			got := Static(canada, tt.tier)
			if !strings.HasPrefix(got, tt.want) {
				t.Fatalf("Static() = %q, want prefix %q", got, tt.want)
			}
			if !strings.HasSuffix(got, "Hint: Filter on the country column.") {
				t.Fatalf("exercise hint missing from %q", got)
			}
		})
	}

	noHint := canada
	noHint.Hint = ""
	assert.Equal(t, "You're very close! Check your column names or table joins.", Static(noHint, similarity.NearMiss))
}
