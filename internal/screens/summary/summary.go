// Package summary shows what a practice run covered once the learner
// finishes it.
package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/router"
	"github.com/abhisek/sqltutor/internal/screen"
	"github.com/abhisek/sqltutor/internal/ui/layout"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

// Result is the outcome of one exercise in a run.
type Result struct {
	ExerciseID string
	Question   string
	Attempts   int
	Solved     bool
	// Revealed is set when the solution was shown before a correct answer.
	Revealed  bool
	Generated bool
}

// Summary describes a finished practice run.
type Summary struct {
	Tier     exercises.Tier
	Duration time.Duration
	Results  []Result
	// Done and Total are the tier progress at the end of the run.
	Done, Total int
}

// Solved counts the exercises answered correctly.
func (s Summary) Solved() int {
	n := 0
	for _, r := range s.Results {
		if r.Solved {
			n++
		}
	}
	return n
}

// FirstTry counts the exercises solved on the first attempt.
func (s Summary) FirstTry() int {
	n := 0
	for _, r := range s.Results {
		if r.Solved && r.Attempts == 1 {
			n++
		}
	}
	return n
}

// SummaryScreen displays a run summary.
type SummaryScreen struct {
	summary Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Practice Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		sum.Tier.Title()+" practice complete!"))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Exercises: %d        Solved: %d        First try: %d",
		len(sum.Results), sum.Solved(), sum.FirstTry())
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), statsLine))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Progress: %d/%d exercises completed at %s level", sum.Done, sum.Total, sum.Tier)))
	b.WriteString("\n\n")

	if len(sum.Results) == 0 {
		return b.String()
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Exercises"))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	qWidth := max(min(width-30, 60), 10)
	for _, r := range sum.Results {
		mark, style := "✗", lipgloss.NewStyle().Foreground(theme.Error)
		switch {
		case r.Solved:
			mark, style = "✓", lipgloss.NewStyle().Foreground(theme.Success)
		case r.Revealed:
			mark, style = "?", lipgloss.NewStyle().Foreground(theme.Accent)
		}

		tries := "1 attempt"
		if r.Attempts != 1 {
			tries = fmt.Sprintf("%d attempts", r.Attempts)
		}
		line := fmt.Sprintf("%s  %-*s  %s", mark, qWidth, truncate(r.Question, qWidth), tries)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
