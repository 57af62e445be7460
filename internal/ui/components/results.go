package components

import (
	"fmt"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/sqltutor/internal/sqldb"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

// MaxResultRows is the number of rows a results table shows before
// summarizing the rest.
const MaxResultRows = 10

// ResultsTable renders a query result as a bordered table. At most
// MaxResultRows rows are shown, followed by a "... (N more rows)" line.
func ResultsTable(rs *sqldb.ResultSet, width int) string {
	if rs == nil {
		return ""
	}
	if len(rs.Columns) == 0 {
		return theme.Hint.Render("(statement returned no columns)")
	}

	shown := rs.Rows
	if len(shown) > MaxResultRows {
		shown = shown[:MaxResultRows]
	}

	rows := make([][]string, len(shown))
	for i, r := range shown {
		cells := make([]string, len(r))
		for j, v := range r {
			cells[j] = FormatValue(v)
		}
		rows[i] = cells
	}

	header := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
	null := cell.Foreground(theme.TextDim).Italic(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(rs.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row < len(shown) && col < len(shown[row]) && shown[row][col] == nil:
				return null
			default:
				return cell
			}
		})
	if width > 0 {
		t = t.Width(min(width, lipgloss.Width(t.String())))
	}

	out := t.String()
	switch n := len(rs.Rows); {
	case n == 0:
		out += "\n" + theme.Hint.Render("(no rows)")
	case n > MaxResultRows:
		out += "\n" + theme.Hint.Render(fmt.Sprintf("... (%d more rows)", n-MaxResultRows))
	}
	return out
}

// FormatValue renders one result cell the way SQLite prints it.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(x)
	}
}
