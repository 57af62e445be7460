package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/similarity"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
	// Fill overrides the filled segment color.
	Fill lipgloss.Style
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
		Fill:        theme.ProgressFilled,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 8 // "  100.0%"
	}

	barWidth := max(p.Width-labelWidth-percentWidth, 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	result += p.Fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %.1f%%", p.Percent*100))
	}

	return result
}

// SimilarityBar renders a similarity score in [0,1] as a labelled bar
// colored by the hint tier the score falls in. A negative score means it
// could not be computed.
func SimilarityBar(score float64, tier similarity.HintTier, width int) string {
	if score < 0 {
		return lipgloss.NewStyle().Foreground(theme.Text).Render("Similarity") + "  " +
			theme.Hint.Render("unavailable")
	}
	bar := NewProgressBar("Similarity", score, true, width)
	switch tier {
	case similarity.NearMiss:
		bar.Fill = lipgloss.NewStyle().Background(theme.Success)
	case similarity.Structural, similarity.Conceptual:
		bar.Fill = lipgloss.NewStyle().Background(theme.Accent)
	default:
		bar.Fill = lipgloss.NewStyle().Background(theme.Error)
	}
	return bar.View()
}
