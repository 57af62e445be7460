package activity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sqltutor/internal/router"
	"github.com/abhisek/sqltutor/internal/store"
)

// fakeRepo implements store.EventRepo for testing.
type fakeRepo struct {
	events []store.LLMRequestEvent
	err    error
	opts   store.QueryOpts
}

func (f *fakeRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error { return nil }
func (f *fakeRepo) QueryLLMEvents(_ context.Context, opts store.QueryOpts) ([]store.LLMRequestEvent, error) {
	f.opts = opts
	return f.events, f.err
}
func (f *fakeRepo) GetLLMEvent(context.Context, int) (*store.LLMRequestEvent, error) { return nil, nil }
func (f *fakeRepo) LLMUsageByPurpose(context.Context) ([]store.PurposeUsage, error) {
	return nil, nil
}
func (f *fakeRepo) LLMUsageByModel(context.Context) ([]store.ModelUsage, error) { return nil, nil }

func testEvents() []store.LLMRequestEvent {
	ts := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	return []store.LLMRequestEvent{
		{ID: 2, Sequence: 2, Timestamp: ts, LLMRequestEventData: store.LLMRequestEventData{
			SessionID: "s-1", Provider: "anthropic", Model: "claude-sonnet-4-5",
			Purpose: "hint", InputTokens: 900, OutputTokens: 100, LatencyMs: 812, Success: true,
		}},
		{ID: 1, Sequence: 1, Timestamp: ts, LLMRequestEventData: store.LLMRequestEventData{
			Provider: "openai", Model: "unknown-model", Purpose: "exercise-gen",
			LatencyMs: 30, ErrorMessage: "rate limited",
		}},
	}
}

func load(t *testing.T, repo *fakeRepo) *ActivityScreen {
	t.Helper()
	s := New(repo)
	s.Update(s.Init()())
	if !s.loaded {
		t.Fatal("screen should be loaded")
	}
	return s
}

func TestActivityScreen_LoadsRecent(t *testing.T) {
	repo := &fakeRepo{events: testEvents()}
	s := load(t, repo)

	if repo.opts.Limit != Limit {
		t.Errorf("query limit = %d, want %d", repo.opts.Limit, Limit)
	}
	view := s.View(120, 30)
	for _, want := range []string{"hint", "claude-sonnet-4-5", "1000 tok", "exercise-gen"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestActivityScreen_Expand(t *testing.T) {
	s := load(t, &fakeRepo{events: testEvents()})

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(120, 30)
	if !strings.Contains(view, "error: rate limited") {
		t.Error("expanded row should show the error")
	}
	if !strings.Contains(view, "cost ?") {
		t.Error("unknown model should show an unknown cost")
	}
	if strings.Contains(view, "session s-1") {
		t.Error("first row is not expanded")
	}
}

func TestActivityScreen_Empty(t *testing.T) {
	s := load(t, &fakeRepo{})
	if !strings.Contains(s.View(80, 24), "No AI requests yet") {
		t.Error("expected empty message")
	}
}

func TestActivityScreen_Error(t *testing.T) {
	s := load(t, &fakeRepo{err: errors.New("disk gone")})
	if !strings.Contains(s.View(80, 24), "disk gone") {
		t.Error("expected error message")
	}
}

func TestActivityScreen_EscPops(t *testing.T) {
	s := load(t, &fakeRepo{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should pop")
	}
}

func TestCost(t *testing.T) {
	ev := testEvents()[0]
	if got := cost(ev); got != "$0.0042" {
		t.Errorf("cost = %q, want %q", got, "$0.0042")
	}
}
