// Package home is the main menu.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/cheatsheet"
	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/router"
	"github.com/abhisek/sqltutor/internal/screen"
	"github.com/abhisek/sqltutor/internal/screens/activity"
	"github.com/abhisek/sqltutor/internal/screens/practice"
	"github.com/abhisek/sqltutor/internal/screens/reference"
	"github.com/abhisek/sqltutor/internal/sqldb"
	"github.com/abhisek/sqltutor/internal/store"
	"github.com/abhisek/sqltutor/internal/tutor"
	"github.com/abhisek/sqltutor/internal/ui/components"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	tutor *tutor.Tutor
	menu  components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. tables is the sample database schema shown on
// the schema page. The AI activity page is listed only when events is set.
func New(t *tutor.Tutor, tables []sqldb.Table, events store.EventRepo) *HomeScreen {
	h := &HomeScreen{tutor: t}

	var items []components.MenuItem
	for _, tier := range exercises.Tiers() {
		items = append(items, components.MenuItem{
			Label:  tier.Title() + " practice",
			Detail: func() string { return h.progress(tier) },
			Action: push(func() screen.Screen { return practice.New(t, tier) }),
		})
	}

	items = append(items,
		components.MenuItem{
			Label: "Database schema",
			Action: push(func() screen.Screen {
				return reference.New("Database Schema", func(int) string {
					return components.SchemaView(tables)
				})
			}),
		},
		components.MenuItem{
			Label: "Example exercises",
			Action: push(func() screen.Screen {
				return reference.New("Example Exercises", func(int) string {
					return examples(t.Bank())
				})
			}),
		},
		components.MenuItem{
			Label: "SQL cheatsheet",
			Action: push(func() screen.Screen {
				return reference.New("SQL Cheatsheet", cheatsheet.Render)
			}),
		},
	)
	if events != nil {
		items = append(items, components.MenuItem{
			Label:  "AI activity",
			Action: push(func() screen.Screen { return activity.New(events) }),
		})
	}
	items = append(items,
		components.MenuItem{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	)

	h.menu = components.NewMenu(items)
	return h
}

func push(build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: build()}
		}
	}
}

func (h *HomeScreen) progress(tier exercises.Tier) string {
	done, total := h.tutor.Progress(tier)
	return fmt.Sprintf("%d/%d solved", done, total)
}

// examples lists the first few exercises of every tier.
func examples(bank *exercises.Bank) string {
	var sections []string
	for _, tier := range exercises.Tiers() {
		sections = append(sections,
			components.TierHeading(tier)+"\n"+
				components.ExerciseList(bank.Examples(tier, tutor.ExampleCount), false))
	}
	return strings.Join(sections, "\n\n")
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 64)

	title := theme.Title.Render("Learn SQL by writing it")
	sub := theme.Subtitle.Render("Pick a tier and start querying the sample store database.")

	status := theme.Hint.Render("AI tutor: off (static hints)")
	if h.tutor.AIAvailable() {
		status = lipgloss.NewStyle().Foreground(theme.Success).Render("AI tutor: on")
	}

	menu := components.Panel("Menu", h.menu.View(), cw)
	content := lipgloss.JoinVertical(lipgloss.Center, title, sub, "", menu, "", status)
	return components.Centered(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
