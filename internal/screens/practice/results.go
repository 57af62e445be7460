package practice

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/sqldb"
	"github.com/abhisek/sqltutor/internal/ui/components"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

// renderResults lays the learner and expected tables out side by side
// when both fit in width, stacked otherwise.
func renderResults(got, want *sqldb.ResultSet, width int) string {
	left := labelled("Your result", got, width)
	right := labelled("Expected", want, width)
	switch {
	case left == "":
		return right
	case right == "":
		return left
	}

	if lipgloss.Width(left)+lipgloss.Width(right)+2 <= width {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, left, "", right)
}

func labelled(label string, rs *sqldb.ResultSet, width int) string {
	if rs == nil {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Subtitle.Render(label),
		components.ResultsTable(rs, width),
	)
}
