package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/ui/theme"
)

// Choice is a numbered option list. An option is picked with its number
// key, or with the arrows and Enter.
type Choice struct {
	Options  []string
	Selected int
	// Chosen is the picked option, -1 until one is picked.
	Chosen int
}

// NewChoice creates a choice list with nothing picked.
func NewChoice(options ...string) Choice {
	return Choice{Options: options, Chosen: -1}
}

// Update handles navigation and selection.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || c.Chosen >= 0 {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		c.Chosen = c.Selected
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(c.Options) {
			c.Selected = n - 1
			c.Chosen = n - 1
		}
	}
	return c, nil
}

// Reset clears the pick so the list can be used again.
func (c *Choice) Reset() {
	c.Chosen = -1
	c.Selected = 0
}

// View renders the options as "1. label" lines.
func (c Choice) View() string {
	var s string
	for i, opt := range c.Options {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		if i == c.Selected {
			s += theme.Selected.Render("▸ "+line) + "\n"
		} else {
			s += lipgloss.NewStyle().Foreground(theme.Text).Render("  "+line) + "\n"
		}
	}
	return s
}
