// Package markdown renders Markdown for the terminal.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Render renders md wrapped at width. If glamour cannot render it, the
// Markdown source is returned unchanged.
func Render(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
