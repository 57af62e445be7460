package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/ui/theme"
)

// ContentWidth returns the width screens lay their content out at inside
// a frame of the given width.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-4, 20), 110)
}

// Panel wraps content in a rounded border with an optional title line.
func Panel(title, content string, cw int) string {
	if title != "" {
		content = theme.Title.Render(title) + "\n" + content
	}
	return theme.Card.Width(cw).Render(content)
}

// Centered places content in the middle of a width x height area.
func Centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
