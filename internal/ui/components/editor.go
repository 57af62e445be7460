package components

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/ui/theme"
)

// SQLEditor is a multi-line SQL input. Enter inserts a newline until the
// text ends with a semicolon; then Enter submits.
type SQLEditor struct {
	Model textarea.Model
}

// NewSQLEditor creates a focused editor.
func NewSQLEditor(placeholder string, width, height int) SQLEditor {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = "│ "
	ta.CharLimit = 4000
	ta.SetWidth(width)
	ta.SetHeight(height)

	styles := ta.Styles()
	styles.Focused.Prompt = lipgloss.NewStyle().Foreground(theme.Primary)
	styles.Focused.Text = lipgloss.NewStyle().Foreground(theme.Text)
	styles.Focused.CursorLine = lipgloss.NewStyle()
	styles.Blurred.Prompt = lipgloss.NewStyle().Foreground(theme.Border)
	ta.SetStyles(styles)

	ta.Focus()
	return SQLEditor{Model: ta}
}

// Init returns the cursor blink command.
func (e SQLEditor) Init() tea.Cmd {
	return textarea.Blink
}

// Update forwards input to the textarea. It reports submitted=true,
// without inserting a newline, when Enter is pressed on a statement that
// ends with a semicolon.
func (e SQLEditor) Update(msg tea.Msg) (SQLEditor, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "enter" && e.Complete() {
		return e, nil, true
	}
	var cmd tea.Cmd
	e.Model, cmd = e.Model.Update(msg)
	return e, cmd, false
}

// Complete reports whether the text is a terminated statement.
func (e SQLEditor) Complete() bool {
	return strings.HasSuffix(strings.TrimSpace(e.Model.Value()), ";")
}

// Value returns the current text.
func (e SQLEditor) Value() string {
	return e.Model.Value()
}

// SetValue replaces the text.
func (e *SQLEditor) SetValue(s string) {
	e.Model.SetValue(s)
}

// Reset clears the text.
func (e *SQLEditor) Reset() {
	e.Model.Reset()
}

// SetWidth resizes the editor.
func (e *SQLEditor) SetWidth(w int) {
	e.Model.SetWidth(w)
}

// View renders the editor.
func (e SQLEditor) View() string {
	return e.Model.View()
}
