package home

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/router"
	"github.com/abhisek/sqltutor/internal/screens/practice"
	"github.com/abhisek/sqltutor/internal/screens/reference"
	"github.com/abhisek/sqltutor/internal/screens/activity"
	"github.com/abhisek/sqltutor/internal/sqldb"
	"github.com/abhisek/sqltutor/internal/store"
	"github.com/abhisek/sqltutor/internal/tutor"
)

func newHome(t *testing.T) *HomeScreen {
	t.Helper()
	tu, tables := newTutor(t)
	return New(tu, tables, nil)
}

func newTutor(t *testing.T) (*tutor.Tutor, []sqldb.Table) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.db")
	if err := sqldb.Bootstrap(context.Background(), path, false); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	db, err := sqldb.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	bank := exercises.New()
	if err := bank.Add(exercises.Exercise{
		ID:       "b1",
		Tier:     exercises.Beginner,
		Question: "List every product.",
		Solution: "SELECT * FROM products;",
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	tu, err := tutor.New(tutor.Options{Bank: bank, Runner: db})
	if err != nil {
		t.Fatalf("tutor: %v", err)
	}
	tables, err := db.Tables(context.Background())
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	return tu, tables
}

func press(h *HomeScreen, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyPressMsg
		switch k {
		case "down":
			msg = tea.KeyPressMsg{Code: tea.KeyDown}
		case "enter":
			msg = tea.KeyPressMsg{Code: tea.KeyEnter}
		}
		_, cmd = h.Update(msg)
	}
	return cmd
}

func TestHomeScreen_ViewListsMenu(t *testing.T) {
	h := newHome(t)
	v := h.View(100, 30)

	for _, want := range []string{
		"Beginner practice",
		"Intermediate practice",
		"Advanced practice",
		"Database schema",
		"SQL cheatsheet",
		"Quit",
		"1 solved",
		"AI tutor: off",
	} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.Contains(v, "0/1 solved") {
		t.Errorf("expected beginner progress 0/1, got:\n%s", v)
	}
}

func TestHomeScreen_StartPractice(t *testing.T) {
	h := newHome(t)
	cmd := press(h, "enter")
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	p, ok := msg.Screen.(*practice.PracticeScreen)
	if !ok {
		t.Fatalf("expected practice screen, got %T", msg.Screen)
	}
	if p.Title() != "Beginner Practice" {
		t.Errorf("title = %q", p.Title())
	}
}

func TestHomeScreen_SchemaPage(t *testing.T) {
	h := newHome(t)
	cmd := press(h, "down", "down", "down", "enter")
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg")
	}
	r, ok := msg.Screen.(*reference.ReferenceScreen)
	if !ok {
		t.Fatalf("expected reference screen, got %T", msg.Screen)
	}
	if r.Title() != "Database Schema" {
		t.Errorf("title = %q", r.Title())
	}
	if v := r.View(120, 200); !strings.Contains(v, "customers") {
		t.Errorf("schema page should list the customers table")
	}
}

func TestHomeScreen_Quit(t *testing.T) {
	h := newHome(t)
	cmd := press(h, "down", "down", "down", "down", "down", "down", "enter")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestHomeScreen_ActivityPage(t *testing.T) {
	tu, tables := newTutor(t)
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	h := New(tu, tables, st.EventRepo())
	if !strings.Contains(h.View(100, 30), "AI activity") {
		t.Fatal("menu should list AI activity when the store is available")
	}

	cmd := press(h, "down", "down", "down", "down", "down", "down", "enter")
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := msg.Screen.(*activity.ActivityScreen); !ok {
		t.Errorf("expected activity screen, got %T", msg.Screen)
	}
}

func TestHomeScreen_NoActivityWithoutStore(t *testing.T) {
	h := newHome(t)
	if strings.Contains(h.View(100, 30), "AI activity") {
		t.Error("AI activity should be hidden without a store")
	}
}
