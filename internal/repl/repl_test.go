package repl

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/hints"
	"github.com/abhisek/sqltutor/internal/llm"
	"github.com/abhisek/sqltutor/internal/sqldb"
	"github.com/abhisek/sqltutor/internal/tutor"
)

var canada = exercises.Exercise{
	ID:       "b2",
	Tier:     exercises.Beginner,
	Question: "How many customers are from Canada?",
	Solution: "SELECT COUNT(*) FROM customers WHERE country = 'Canada';",
	Concepts: []string{"COUNT", "WHERE"},
	Hint:     "Filter on the country column and count the rows.",
}

func newTutor(t *testing.T, provider llm.Provider) *tutor.Tutor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.db")
	require.NoError(t, sqldb.Bootstrap(context.Background(), path, false))
	db, err := sqldb.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bank := exercises.New()
	require.NoError(t, bank.Add(canada))

	tu, err := tutor.New(tutor.Options{
		Bank:   bank,
		Runner: db,
		Hints:  hints.NewService(provider, hints.DefaultConfig()),
		Rand:   rand.New(rand.NewPCG(7, 7)),
	})
	require.NoError(t, err)
	return tu
}

func run(t *testing.T, tu *tutor.Tutor, input string) string {
	t.Helper()
	var out bytes.Buffer
	s := New(tu, exercises.Beginner, strings.NewReader(input), &out, 80)
	require.NoError(t, s.Run(context.Background()))
	return out.String()
}

func TestRun_CorrectMultiLine(t *testing.T) {
	tu := newTutor(t, nil)
	out := run(t, tu, strings.Join([]string{
		"y",
		"SELECT COUNT(*)",
		"FROM customers",
		"WHERE country = 'Canada';",
		"n",
	}, "\n")+"\n")

	assert.Contains(t, out, "SQL Practice Session - BEGINNER Level")
	assert.Contains(t, out, "Question: How many customers are from Canada?")
	assert.Contains(t, out, "Hint: Filter on the country column")
	assert.Contains(t, out, "✅ Correct! Great job!")
	assert.Contains(t, out, "Progress: 1/1 exercises completed at beginner level")
	assert.NotContains(t, out, "Solved in")
	assert.Contains(t, out, "COUNT(*)")
}

func TestRun_WrongThenCorrect(t *testing.T) {
	tu := newTutor(t, nil)
	out := run(t, tu, strings.Join([]string{
		"n",
		"SELECT COUNT(*) FROM customers;",
		"1",
		"SELEC 1;",
		"1",
		"SELECT COUNT(*) FROM customers WHERE country = 'Canada';",
		"n",
	}, "\n")+"\n")

	assert.Contains(t, out, "❌ Not quite right")
	assert.Contains(t, out, "(row values differ)")
	assert.Contains(t, out, "Expected results:")
	assert.Contains(t, out, "📊 Similarity to solution:")
	assert.Contains(t, out, "❌ Error:")
	assert.Contains(t, out, "syntax error")
	assert.Contains(t, out, "Attempt 3 (end with semicolon):")
	assert.Contains(t, out, "(Solved in 3 attempts)")
	assert.Equal(t, 2, strings.Count(out, "💡 Hint:"))
}

func TestRun_Exhausted(t *testing.T) {
	tu := newTutor(t, nil)
	out := run(t, tu, strings.Join([]string{
		"n",
		"SELECT 1;", "1",
		"SELECT 2;", "1",
		"SELECT 3;",
		"n",
	}, "\n")+"\n")

	assert.Contains(t, out, "⏰ You've used all 3 attempts.")
	assert.Contains(t, out, "💡 Solution: SELECT COUNT(*) FROM customers WHERE country = 'Canada';")
	assert.Contains(t, out, hints.FeedbackUnavailable)
	assert.Contains(t, out, "Try another question? (y/n)")
}

func TestRun_SeeSolution(t *testing.T) {
	tu := newTutor(t, nil)
	out := run(t, tu, "n\nSELECT 1;\n2\nn\n")

	assert.Contains(t, out, "💡 Solution: SELECT COUNT(*)")
	assert.Contains(t, out, "Understanding the solution")
	assert.NotContains(t, out, "Attempt 2")
}

func TestRun_AIHelpAndHint(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockText("Think about which country you filter on."),
		llm.MockText("You counted every customer."),
	)
	tu := newTutor(t, mock)
	out := run(t, tu, "n\nSELECT COUNT(*) FROM customers;\n3\nn\nn\n")

	assert.Contains(t, out, "🔍 AI Hint: Think about which country you filter on.")
	assert.Contains(t, out, "You counted every customer.")
	assert.Contains(t, out, "Would you like to try again? (y/n)")
	assert.Equal(t, 2, mock.CallCount())
}

func TestRun_RepeatsAfterCompletion(t *testing.T) {
	tu := newTutor(t, nil)
	out := run(t, tu, "n\nSELECT COUNT(*) FROM customers WHERE country = 'Canada';\ny\nn\n")

	assert.Contains(t, out, "Repeating one for practice.")
	assert.Contains(t, out, "AI exercise generation is not configured")
}

func TestRun_EOFEndsCleanly(t *testing.T) {
	tu := newTutor(t, nil)
	out := run(t, tu, "n\nSELECT COUNT(*)\nFROM customers")
	assert.Contains(t, out, "Enter your SQL query")
	assert.NotContains(t, out, "Correct")
}

func TestRun_EmptyQuery(t *testing.T) {
	tu := newTutor(t, nil)
	out := run(t, tu, "n\n;\nSELECT COUNT(*) FROM customers WHERE country = 'Canada';\nn\n")
	assert.Contains(t, out, "Please enter a query.")
	assert.Contains(t, out, "✅ Correct!")
}

// interruptReader serves its input once, then cancels the session and
// blocks like an idle terminal until released.
type interruptReader struct {
	input   string
	served  bool
	cancel  context.CancelFunc
	release chan struct{}
}

func (r *interruptReader) Read(p []byte) (int, error) {
	if !r.served {
		r.served = true
		return copy(p, r.input), nil
	}
	r.cancel()
	<-r.release
	return 0, io.EOF
}

func TestRun_InterruptEndsSession(t *testing.T) {
	tu := newTutor(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := &interruptReader{input: "n\nSELECT COUNT(*)\n", cancel: cancel, release: make(chan struct{})}
	t.Cleanup(func() { close(in.release) })

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- New(tu, exercises.Beginner, in, &out, 80).Run(ctx)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after interrupt")
	}

	assert.Contains(t, out.String(), "Enter your SQL query")
	assert.NotContains(t, out.String(), "❌")
	assert.NotContains(t, out.String(), "Would you like to:")
	solved, _ := tu.Progress(exercises.Beginner)
	assert.Zero(t, solved)
}
