// Package reference is a scrollable read-only screen for the schema,
// example exercises and the cheatsheet.
package reference

import (
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sqltutor/internal/screen"
	"github.com/abhisek/sqltutor/internal/ui/layout"
)

// RenderFunc renders the page body for the given content width.
type RenderFunc func(width int) string

// ReferenceScreen shows pre-rendered content in a viewport.
type ReferenceScreen struct {
	title    string
	render   RenderFunc
	viewport viewport.Model

	// The body is re-rendered only when the width changes.
	width int
	body  string
}

var _ screen.Screen = (*ReferenceScreen)(nil)
var _ screen.KeyHintProvider = (*ReferenceScreen)(nil)

// New creates a reference screen.
func New(title string, render RenderFunc) *ReferenceScreen {
	return &ReferenceScreen{
		title:    title,
		render:   render,
		viewport: viewport.New(),
	}
}

func (r *ReferenceScreen) Init() tea.Cmd { return nil }

func (r *ReferenceScreen) Title() string { return r.title }

func (r *ReferenceScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
		{Key: "Esc", Description: "Back"},
	}
}

func (r *ReferenceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch k.String() {
		case "home", "g":
			r.viewport.GotoTop()
			return r, nil
		case "end", "G":
			r.viewport.GotoBottom()
			return r, nil
		}
	}
	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return r, cmd
}

func (r *ReferenceScreen) View(width, height int) string {
	if width != r.width || r.body == "" {
		r.width = width
		r.body = r.render(max(width-4, 20))
	}
	r.viewport.SetWidth(width)
	r.viewport.SetHeight(height)
	r.viewport.SetContent(r.body)
	return r.viewport.View()
}
