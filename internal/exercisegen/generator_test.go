package exercisegen

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/llm"
	"github.com/abhisek/sqltutor/internal/sqldb"
)

func openSample(t *testing.T) *sqldb.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.db")
	if err := sqldb.Bootstrap(context.Background(), path, false); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	db, err := sqldb.Open(path, sqldb.WithQueryTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func exerciseJSON(question, solution string) json.RawMessage {
	b, _ := json.Marshal(map[string]any{
		"question": question,
		"solution": solution,
		"concepts": []string{"SELECT", "WHERE"},
		"hint":     "Look at the stock column.",
	})
	return b
}

func validExerciseJSON() json.RawMessage {
	return exerciseJSON("Which products are out of stock?", "SELECT name FROM products WHERE stock = 0;")
}

func beginnerInput() GenerateInput {
	return GenerateInput{
		Tier:           exercises.Beginner,
		PriorQuestions: []string{"How many customers are from Canada?"},
	}
}

func TestGenerate_Valid(t *testing.T) {
	db := openSample(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: validExerciseJSON()})
	gen := New(mock, DefaultConfig(db))

	ex, err := gen.Generate(context.Background(), beginnerInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.ID != "bgen1" {
		t.Errorf("expected id bgen1, got %q", ex.ID)
	}
	if !ex.Generated {
		t.Error("expected Generated to be set")
	}
	if ex.Tier != exercises.Beginner {
		t.Errorf("expected beginner tier, got %q", ex.Tier)
	}
	if ex.Solution != "SELECT name FROM products WHERE stock = 0;" {
		t.Errorf("unexpected solution: %q", ex.Solution)
	}

	req := mock.LastCall()
	if req.Schema != ExerciseSchema {
		t.Error("expected the sql-exercise schema")
	}
	if !strings.Contains(req.Messages[0].Content, "How many customers are from Canada?") {
		t.Error("prior questions missing from prompt")
	}
}

func TestGenerate_SequentialIDs(t *testing.T) {
	db := openSample(t)
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: validExerciseJSON()},
		llm.MockResponse{Content: exerciseJSON("List the products priced above 100.", "SELECT name FROM products WHERE price > 100")},
		llm.MockResponse{Content: exerciseJSON("List all customer emails.", "SELECT email FROM customers")},
	)
	gen := New(mock, DefaultConfig(db))

	taken := map[string]bool{"bgen2": true}
	input := beginnerInput()
	input.IDTaken = func(id string) bool { return taken[id] }

	var ids []string
	for range 2 {
		ex, err := gen.Generate(context.Background(), input)
		require.NoError(t, err)
		ids = append(ids, ex.ID)
	}
	assert.Equal(t, []string{"bgen1", "bgen3"}, ids)

	input.Tier = exercises.Advanced
	ex, err := gen.Generate(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "agen1", ex.ID)
}

func TestGenerate_RetriesRetryableFailures(t *testing.T) {
	db := openSample(t)
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: exerciseJSON("Remove old orders.", "DELETE FROM orders")},
		llm.MockResponse{Content: exerciseJSON("Which customers are from Mars?", "SELECT * FROM customers WHERE country = 'Mars'")},
		llm.MockResponse{Content: validExerciseJSON()},
	)
	gen := New(mock, DefaultConfig(db))

	ex, err := gen.Generate(context.Background(), beginnerInput())
	require.NoError(t, err)
	assert.Equal(t, "Which products are out of stock?", ex.Question)
	assert.Equal(t, 3, mock.CallCount())

	// Rejection reasons are fed back into the final prompt.
	prompt := mock.LastCall().Messages[0].Content
	assert.Contains(t, prompt, "previous attempts were rejected")
	assert.Contains(t, prompt, "solution returns no rows")
}

func TestGenerate_GivesUpAfterMaxRetries(t *testing.T) {
	db := openSample(t)
	dup := exerciseJSON("how many customers are from canada", "SELECT COUNT(*) FROM customers WHERE country = 'Canada'")
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: dup},
		llm.MockResponse{Content: dup},
		llm.MockResponse{Content: dup},
		llm.MockResponse{Content: validExerciseJSON()},
	)
	gen := New(mock, DefaultConfig(db))

	_, err := gen.Generate(context.Background(), beginnerInput())
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if valErr.Validator != "duplicate" {
		t.Errorf("expected duplicate validator, got %q", valErr.Validator)
	}
	if mock.CallCount() != MaxValidationRetries+1 {
		t.Errorf("expected %d calls, got %d", MaxValidationRetries+1, mock.CallCount())
	}
}

func TestGenerate_NonRetryableStops(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: validExerciseJSON()},
		llm.MockResponse{Content: validExerciseJSON()},
	)
	gen := New(mock, DefaultConfig(nil))

	_, err := gen.Generate(context.Background(), beginnerInput())
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "execution", valErr.Validator)
	assert.False(t, valErr.Retryable)
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerate_MalformedJSONRetried(t *testing.T) {
	db := openSample(t)
	mock := llm.NewMockProvider(
		llm.MockText("not json"),
		llm.MockResponse{Content: validExerciseJSON()},
	)
	gen := New(mock, DefaultConfig(db))

	ex, err := gen.Generate(context.Background(), beginnerInput())
	require.NoError(t, err)
	assert.Equal(t, "bgen1", ex.ID)
}

func TestGenerate_ProviderUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
		notConf  bool
	}{
		{"nil provider", nil, true},
		{"provider error", llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := New(tt.provider, DefaultConfig(nil))
			_, err := gen.Generate(context.Background(), beginnerInput())
			if !llm.IsUnavailable(err) {
				t.Fatalf("expected collaborator unavailable, got %v", err)
			}
			var cu *llm.CollaboratorUnavailableError
			require.ErrorAs(t, err, &cu)
			assert.Equal(t, "exercise-gen", cu.Purpose)
			assert.Equal(t, tt.notConf, errors.Is(err, llm.ErrNotConfigured))
		})
	}
}

// trackingValidator records whether it was called.
type trackingValidator struct {
	called bool
}

func (v *trackingValidator) Name() string { return "tracking" }
func (v *trackingValidator) Validate(context.Context, *exercises.Exercise, GenerateInput) *ValidationError {
	v.called = true
	return nil
}

type rejectValidator struct{}

func (rejectValidator) Name() string { return "reject" }
func (rejectValidator) Validate(context.Context, *exercises.Exercise, GenerateInput) *ValidationError {
	return &ValidationError{Validator: "reject", Message: "rejected"}
}

func TestGenerate_ValidatorOrder(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validExerciseJSON()})
	tracker := &trackingValidator{}
	gen := New(mock, Config{Validators: []Validator{rejectValidator{}, tracker}})

	_, err := gen.Generate(context.Background(), beginnerInput())
	var valErr *ValidationError
	if !errors.As(err, &valErr) || valErr.Validator != "reject" {
		t.Fatalf("expected error from 'reject', got %v", err)
	}
	if tracker.called {
		t.Error("second validator should not have been called")
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig(nil)
	var names []string
	for _, v := range cfg.Validators {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"structural", "duplicate", "execution"}, names)
	assert.Equal(t, MaxValidationRetries, cfg.MaxRetries)
}
