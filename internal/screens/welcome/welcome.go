package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/router"
	"github.com/abhisek/sqltutor/internal/screen"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	typingStart  = 500 * time.Millisecond
	bannerAt     = 2000 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const drumArt = `  ╭─────────────╮
  │╲___________╱│
  │             │
  │╲___________╱│
  │             │
  ╰─────────────╯`

// typedQuery is revealed one character per tick.
const typedQuery = "SELECT skill FROM practice;"

type tickMsg time.Time

// WelcomeScreen shows a splash animation before handing over to the home
// screen. Any key skips it.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// typed returns the part of typedQuery visible at the current time.
func (w *WelcomeScreen) typed() string {
	if w.elapsed < typingStart {
		return ""
	}
	n := int((w.elapsed-typingStart)/tickInterval) * 2
	return typedQuery[:min(n, len(typedQuery))]
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Primary).Render(drumArt))

	prompt := lipgloss.NewStyle().Foreground(theme.Secondary).Render("sql> ")
	cursor := " "
	if w.tickCount%4 < 2 {
		cursor = lipgloss.NewStyle().Foreground(theme.Accent).Render("█")
	}
	query := lipgloss.NewStyle().Foreground(theme.Text).Render(w.typed())
	sections = append(sections, "", prompt+query+cursor)

	if w.elapsed >= bannerAt {
		sections = append(sections, "", RenderBanner(width), "")
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Learn SQL one query at a time.")
		sections = append(sections, tagline, "")

		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, hint)
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
