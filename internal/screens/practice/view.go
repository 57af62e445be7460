package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/ui/components"
	"github.com/abhisek/sqltutor/internal/ui/markdown"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.errMsg != "" {
		msg := theme.Incorrect.Render("Something went wrong") + "\n\n" +
			theme.Body.Render(s.errMsg) + "\n\n" +
			theme.Hint.Render("Press any key to go back.")
		return components.Centered(msg, width, height)
	}
	if s.phase == phaseLoading {
		msg := s.spinner.View() + " " + theme.Hint.Render("Picking an exercise...")
		return components.Centered(msg, width, height)
	}

	cw := components.ContentWidth(width)
	s.editor.SetWidth(cw - 4)

	var b strings.Builder
	b.WriteString(s.renderQuestion(cw))
	b.WriteString("\n")

	switch s.phase {
	case phaseEditing:
		b.WriteString(s.renderEditor(cw))
	case phaseChecking:
		b.WriteString(s.renderSubmitted(cw))
		b.WriteString("\n" + s.spinner.View() + " " + theme.Hint.Render("Running your query..."))
	case phaseReview:
		b.WriteString(s.renderSubmitted(cw))
		b.WriteString(s.renderReview(cw))
	case phaseDone:
		b.WriteString(s.renderSubmitted(cw))
		b.WriteString(s.renderDone(cw))
	}

	body := lipgloss.NewStyle().Width(cw).Render(b.String())
	s.viewport.SetWidth(width)
	s.viewport.SetHeight(height)
	s.viewport.SetContent(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
	return s.viewport.View()
}

func (s *PracticeScreen) renderQuestion(cw int) string {
	ex := s.practice.Exercise()

	used := len(s.practice.Attempts())
	meta := []string{fmt.Sprintf("Attempt %d of %d", used+1, s.tutor.MaxAttempts())}
	if s.phase != phaseEditing {
		meta[0] = fmt.Sprintf("Attempt %d of %d", max(used, 1), s.tutor.MaxAttempts())
	}
	if c := ex.ConceptList(); c != "" {
		meta = append(meta, c)
	}
	if ex.Generated {
		meta = append(meta, "AI generated")
	}

	var b strings.Builder
	if s.info.Repeated && s.info.Reason != "" {
		b.WriteString(theme.HintText.Render(s.info.Reason))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Hint.Render(strings.Join(meta, "  ·  ")))
	b.WriteString("\n")
	b.WriteString(components.Panel("Question", theme.Body.Render(ex.Question), cw))
	b.WriteString("\n")
	return b.String()
}

func (s *PracticeScreen) renderEditor(cw int) string {
	var b strings.Builder
	b.WriteString(s.editor.View())
	b.WriteString("\n")
	if s.notice != "" {
		b.WriteString(theme.Incorrect.Render(s.notice))
		b.WriteString("\n")
	}
	b.WriteString(s.renderHint(cw))
	return b.String()
}

// renderSubmitted shows the last submitted query.
func (s *PracticeScreen) renderSubmitted(cw int) string {
	sql := s.editor.Value()
	if s.outcome != nil {
		sql = s.outcome.Attempt.SQL
	}
	return theme.Code.Width(cw).Render(strings.TrimSpace(sql)) + "\n"
}

func (s *PracticeScreen) renderOutcome(cw int) string {
	out := s.outcome
	if out == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	switch {
	case out.Correct():
		b.WriteString(theme.Correct.Render("✓ Correct!"))
		b.WriteString("\n\n")
		b.WriteString(components.ResultsTable(out.Result, cw))
		b.WriteString("\n")
		return b.String()
	case out.ExecErr != nil:
		b.WriteString(theme.Incorrect.Render("✗ Your query failed to run"))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(out.ExecErr.Error()))
		b.WriteString("\n")
	default:
		b.WriteString(theme.Incorrect.Render("✗ Not quite right"))
		if out.Reason != "" {
			b.WriteString(theme.Hint.Render(": " + out.Reason))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(components.SimilarityBar(out.Attempt.Similarity, out.HintTier, min(cw, 60)))
	b.WriteString("\n")
	if out.Result != nil || out.Expected != nil {
		b.WriteString("\n")
		b.WriteString(renderResults(out.Result, out.Expected, cw))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *PracticeScreen) renderReview(cw int) string {
	var b strings.Builder
	b.WriteString(s.renderOutcome(cw))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d attempts left", s.outcome.AttemptsLeft)))
	b.WriteString("\n\n")
	b.WriteString(s.renderHint(cw))
	b.WriteString(s.renderFeedback(cw))
	b.WriteString("\n")
	b.WriteString(s.options.View())
	return b.String()
}

func (s *PracticeScreen) renderDone(cw int) string {
	var b strings.Builder
	b.WriteString(s.renderOutcome(cw))

	if s.outcome != nil && s.outcome.Exhausted {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render("Out of attempts."))
		b.WriteString("\n")
	}
	if s.solution != "" {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Solution"))
		b.WriteString("\n")
		b.WriteString(theme.Code.Width(cw).Render(s.solution))
		b.WriteString("\n")
	}
	b.WriteString(s.renderFeedback(cw))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Press Enter for the next exercise, or q to finish."))
	return b.String()
}

func (s *PracticeScreen) renderHint(cw int) string {
	if s.hintPending && s.hint == "" {
		return s.spinner.View() + " " + theme.Hint.Render("Thinking of a hint...") + "\n"
	}
	if s.hint == "" {
		return ""
	}
	title := "Hint"
	if s.hintAI {
		title = "AI hint"
	}
	text := s.hint
	if s.hintPending {
		text += "\n\n" + s.spinner.View() + " " + theme.Hint.Render("Asking the tutor...")
	}
	return components.Panel(title, theme.HintText.Render(text), cw) + "\n"
}

func (s *PracticeScreen) renderFeedback(cw int) string {
	if s.feedbackWait {
		return "\n" + s.spinner.View() + " " + theme.Hint.Render("Asking the tutor for feedback...") + "\n"
	}
	if s.feedback == "" {
		return ""
	}
	title := "Feedback"
	if s.feedbackAI {
		title = "Tutor feedback"
	}
	return "\n" + components.Panel(title, markdown.Render(s.feedback, cw-4), cw) + "\n"
}
