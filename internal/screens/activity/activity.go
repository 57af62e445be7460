// Package activity lists recent AI requests from the tutor state DB.
package activity

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/llm"
	"github.com/abhisek/sqltutor/internal/router"
	"github.com/abhisek/sqltutor/internal/screen"
	"github.com/abhisek/sqltutor/internal/store"
	"github.com/abhisek/sqltutor/internal/ui/layout"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

// Limit is how many requests the screen loads.
const Limit = 50

type activityLoadedMsg struct {
	Events []store.LLMRequestEvent
	Err    error
}

// ActivityScreen displays recent LLM requests, newest first.
type ActivityScreen struct {
	eventRepo store.EventRepo
	events    []store.LLMRequestEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*ActivityScreen)(nil)
var _ screen.KeyHintProvider = (*ActivityScreen)(nil)

// New creates a new ActivityScreen.
func New(eventRepo store.EventRepo) *ActivityScreen {
	return &ActivityScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *ActivityScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{Limit: Limit})
		return activityLoadedMsg{Events: events, Err: err}
	}
}

func (s *ActivityScreen) Title() string {
	return "AI Activity"
}

func (s *ActivityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ActivityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case activityLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *ActivityScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return centered.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return centered.Foreground(theme.TextDim).
			Render("\n\n  Loading AI activity...")
	}
	if len(s.events) == 0 {
		return centered.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No AI requests yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	// Keep the selection on screen: each row is one line, plus detail
	// lines for expanded rows above it.
	first := max(s.selected-(height-4), 0)

	for i := first; i < len(s.events); i++ {
		ev := s.events[i]

		status := lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		if !ev.Success {
			status = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-18s %-28s %6d tok  %5dms",
			prefix,
			ev.Timestamp.Local().Format("Jan 02 15:04"),
			ev.Purpose,
			ev.Model,
			ev.InputTokens+ev.OutputTokens,
			ev.LatencyMs,
		)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)+" "+status))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, d := range details(ev) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(d)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// details returns the lines shown under an expanded request.
func details(ev store.LLMRequestEvent) []string {
	session := ev.SessionID
	if session == "" {
		session = "-"
	}
	lines := []string{
		fmt.Sprintf("    provider %s  session %s", ev.Provider, session),
		fmt.Sprintf("    tokens in %d / out %d  cost %s", ev.InputTokens, ev.OutputTokens, cost(ev)),
	}
	if ev.ErrorMessage != "" {
		lines = append(lines, "    error: "+ev.ErrorMessage)
	}
	return lines
}

func cost(ev store.LLMRequestEvent) string {
	c := llm.LookupCost(ev.Model)
	if c == nil {
		return "?"
	}
	return fmt.Sprintf("$%.4f", c.Cost(ev.InputTokens, ev.OutputTokens))
}
