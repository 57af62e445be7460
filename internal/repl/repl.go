// Package repl is the line-mode practice loop used by `sqltutor practice`.
// It reads SQL from any io.Reader, so it works over pipes as well as on a
// terminal.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/tutor"
	"github.com/abhisek/sqltutor/internal/ui/components"
	"github.com/abhisek/sqltutor/internal/ui/markdown"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(theme.Accent)
	dimStyle     = lipgloss.NewStyle().Foreground(theme.TextDim)
	correctStyle = theme.Correct
	wrongStyle   = theme.Incorrect
)

// Session drives practice for one tier until the learner stops or input
// ends.
type Session struct {
	tutor *tutor.Tutor
	tier  exercises.Tier
	in    io.Reader
	out   io.Writer
	width int

	lines chan inputLine
	stop  chan struct{}
}

type inputLine struct {
	text string
	err  error
}

// New creates a session reading from in and writing to out.
func New(t *tutor.Tutor, tier exercises.Tier, in io.Reader, out io.Writer, width int) *Session {
	if width <= 0 {
		width = 80
	}
	return &Session{tutor: t, tier: tier, in: in, out: out, width: width}
}

// Run loops over exercises. It returns nil when the learner quits, input
// ends or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.startReader()
	defer close(s.stop)

	for {
		err := s.exercise(ctx)
		switch {
		case errors.Is(err, io.EOF), ctx.Err() != nil:
			s.println("")
			return nil
		case err != nil:
			return err
		}

		s.println("\n" + dimStyle.Render(strings.Repeat("=", 60)))
		again, err := s.confirm(ctx, "Try another question? (y/n): ")
		if err != nil || !again {
			return nil
		}
	}
}

func (s *Session) exercise(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.println("\n" + dimStyle.Render(strings.Repeat("=", 60)))
	s.println(titleStyle.Render(fmt.Sprintf("SQL Practice Session - %s Level", strings.ToUpper(s.tier.String()))))
	s.println(dimStyle.Render(strings.Repeat("=", 60)) + "\n")

	ex, info, err := s.tutor.Next(ctx, s.tier)
	if err != nil {
		return err
	}
	switch {
	case info.Generated:
		s.println(hintStyle.Render("✨ You've completed every exercise at this level. Here is a new one!") + "\n")
	case info.Repeated:
		s.println(hintStyle.Render("You've completed every exercise at this level. Repeating one for practice.") + "\n")
		s.println(dimStyle.Render("(" + info.Reason + ")"))
	}

	s.printf("%s %s\n", labelStyle.Render("Question:"), ex.Question)
	s.printf("%s %s\n", labelStyle.Render("Concepts:"), ex.ConceptList())

	if ex.Hint != "" {
		want, err := s.confirm(ctx, "\nWould you like a hint? (y/n): ")
		if err != nil {
			return err
		}
		if want {
			s.printf("%s %s\n", hintStyle.Render("Hint:"), ex.Hint)
		}
	}

	return s.practice(ctx, s.tutor.Start(ex))
}

func (s *Session) practice(ctx context.Context, p *tutor.Practice) error {
	maxAtt := s.tutor.MaxAttempts()
	for !p.Done() {
		n := len(p.Attempts()) + 1
		if n == 1 {
			s.println("\nEnter your SQL query (end with semicolon):")
		} else {
			s.printf("\nAttempt %d (end with semicolon):\n", n)
		}

		query, err := s.readQuery(ctx)
		if err != nil {
			return err
		}
		out, err := p.Submit(ctx, query)
		if errors.Is(err, tutor.ErrEmptyQuery) {
			s.println(dimStyle.Render("Please enter a query."))
			continue
		}
		if err != nil {
			return err
		}

		if out.Correct() {
			s.reportCorrect(out)
			return nil
		}
		s.reportWrong(out)

		if out.Exhausted {
			s.printf("\n%s\n", wrongStyle.Render(fmt.Sprintf("⏰ You've used all %d attempts.", maxAtt)))
			s.printf("\n%s %s\n", hintStyle.Render("💡 Solution:"), out.Solution)
			s.feedback(ctx, p, "📚 Getting comprehensive feedback...")
			return nil
		}

		s.printf("\n%s\n", dimStyle.Render(fmt.Sprintf("💡 Generating a hint based on your attempt (Attempt %d/%d)...", out.Attempt.Number, maxAtt)))
		hint, fromAI := p.Hint(ctx)
		label := "💡 Hint:"
		if fromAI {
			label = "🔍 AI Hint:"
		}
		s.printf("%s %s\n", hintStyle.Render(label), hint)

		done, err := s.menu(ctx, p)
		if err != nil || done {
			return err
		}
	}
	return nil
}

// menu offers the post-attempt choices. It reports true when the practice
// should end.
func (s *Session) menu(ctx context.Context, p *tutor.Practice) (bool, error) {
	s.println("\nWould you like to:")
	s.println("1. Try again")
	s.println("2. See the solution")
	s.println("3. Get AI help")

	for {
		choice, err := s.prompt(ctx, "Enter choice (1/2/3): ")
		if err != nil {
			return true, err
		}
		switch choice {
		case "", "1":
			return false, nil
		case "2":
			s.printf("\n%s %s\n", hintStyle.Render("💡 Solution:"), p.Reveal())
			s.feedback(ctx, p, "📚 Understanding the solution...")
			return true, nil
		case "3":
			s.feedback(ctx, p, "📚 Getting detailed feedback...")
			again, err := s.confirm(ctx, "\nWould you like to try again? (y/n): ")
			if err != nil {
				return true, err
			}
			return !again, nil
		default:
			s.println(dimStyle.Render("Please enter 1, 2 or 3."))
		}
	}
}

func (s *Session) reportCorrect(out *tutor.Outcome) {
	s.printf("\n%s\n", correctStyle.Render("✅ Correct! Great job!"))
	if out.Attempt.Number > 1 {
		s.printf("   (Solved in %d attempts)\n", out.Attempt.Number)
	}
	done, total := s.tutor.Progress(s.tier)
	s.printf("   Progress: %d/%d exercises completed at %s level\n", done, total, s.tier)
	s.println("\nYour results:")
	s.println(components.ResultsTable(out.Result, s.width))
}

func (s *Session) reportWrong(out *tutor.Outcome) {
	if out.ExecErr != nil {
		s.printf("\n%s %s\n", wrongStyle.Render("❌ Error:"), out.ExecErr.Error())
	} else {
		s.printf("\n%s\n", wrongStyle.Render("❌ Not quite right. The query runs but produces different results."))
		if out.Reason != "" {
			s.println(dimStyle.Render("   (" + out.Reason + ")"))
		}
	}
	if out.Attempt.Similarity >= 0 {
		s.printf("📊 Similarity to solution: %.1f%%\n", out.Attempt.Similarity*100)
	}
	if out.ExecErr == nil {
		s.println("\nYour results:")
		s.println(components.ResultsTable(out.Result, s.width))
		s.println("\nExpected results:")
		s.println(components.ResultsTable(out.Expected, s.width))
	}
}

func (s *Session) feedback(ctx context.Context, p *tutor.Practice, banner string) {
	s.printf("\n%s\n\n", dimStyle.Render(banner))
	text, fromAI := p.Feedback(ctx)
	if fromAI {
		s.println(markdown.Render(text, s.width))
		return
	}
	s.println(dimStyle.Render(text))
}

// readQuery reads lines until one ends with a semicolon.
func (s *Session) readQuery(ctx context.Context) (string, error) {
	var lines []string
	for {
		if len(lines) == 0 {
			s.print("> ")
		} else {
			s.print("... ")
		}
		line, err := s.readLine(ctx)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
		if strings.HasSuffix(strings.TrimSpace(line), ";") {
			return strings.TrimSpace(strings.Join(lines, "\n")), nil
		}
	}
}

func (s *Session) confirm(ctx context.Context, question string) (bool, error) {
	answer, err := s.prompt(ctx, question)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

func (s *Session) prompt(ctx context.Context, question string) (string, error) {
	s.print(question)
	line, err := s.readLine(ctx)
	return strings.TrimSpace(line), err
}

// startReader scans input on its own goroutine so a blocked read never
// outlives a cancelled ctx. The goroutine exits once stop is closed.
func (s *Session) startReader() {
	s.lines = make(chan inputLine)
	s.stop = make(chan struct{})

	go func() {
		defer close(s.lines)
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case s.lines <- inputLine{text: sc.Text()}:
			case <-s.stop:
				return
			}
		}
		if err := sc.Err(); err != nil {
			select {
			case s.lines <- inputLine{err: err}:
			case <-s.stop:
			}
		}
	}()
}

func (s *Session) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return l.text, l.err
	}
}

func (s *Session) print(v string) { lipgloss.Fprint(s.out, v) }

func (s *Session) println(v string) { lipgloss.Fprintln(s.out, v) }

func (s *Session) printf(format string, args ...any) { lipgloss.Fprintf(s.out, format, args...) }
