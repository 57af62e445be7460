// Package cheatsheet holds the SQL quick reference shown by the
// `cheatsheet` command and screen.
package cheatsheet

import (
	_ "embed"

	"github.com/abhisek/sqltutor/internal/ui/markdown"
)

//go:embed cheatsheet.md
var source string

// Markdown returns the cheatsheet source.
func Markdown() string { return source }

// Render returns the cheatsheet rendered for a terminal of the given width.
func Render(width int) string {
	return markdown.Render(source, width)
}
