package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/sqldb"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

// SchemaTable renders one table's columns with their types and
// constraints, under a "name (N rows)" heading.
func SchemaTable(t sqldb.Table) string {
	kind := "table"
	if t.View {
		kind = "view"
	}
	heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(t.Name) +
		theme.Hint.Render(fmt.Sprintf("  %s, %d rows", kind, t.RowCount))

	rows := make([][]string, len(t.Columns))
	for i, c := range t.Columns {
		rows[i] = []string{c.Name, c.Type, c.Constraints()}
	}

	header := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
	dim := cell.Foreground(theme.TextDim)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Column", "Type", "Constraints").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col > 0:
				return dim
			default:
				return cell
			}
		})

	return heading + "\n" + tbl.String()
}

// SchemaView renders every table of the sample database.
func SchemaView(tables []sqldb.Table) string {
	if len(tables) == 0 {
		return theme.Hint.Render("(the database has no tables)")
	}
	parts := make([]string, len(tables))
	for i, t := range tables {
		parts[i] = SchemaTable(t)
	}
	return strings.Join(parts, "\n\n")
}

// ExerciseList renders exercises as a numbered list of questions with
// their concepts. With solutions set, each reference query is included.
func ExerciseList(list []exercises.Exercise, solutions bool) string {
	if len(list) == 0 {
		return theme.Hint.Render("(no exercises)")
	}

	num := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	sql := lipgloss.NewStyle().Foreground(theme.Secondary)

	var b strings.Builder
	for i, ex := range list {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s %s\n", num.Render(fmt.Sprintf("%d.", i+1)), ex.Question)
		b.WriteString("   " + theme.Hint.Render("Concepts: "+ex.ConceptList()))
		if solutions {
			b.WriteString("\n   " + sql.Render(ex.Solution))
		}
	}
	return b.String()
}

// TierHeading renders a tier name as a section heading.
func TierHeading(t exercises.Tier) string {
	return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render(strings.ToUpper(t.Title()) + " EXERCISES")
}
