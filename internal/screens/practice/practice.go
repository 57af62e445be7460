// Package practice is the TUI screen where the learner solves exercises of
// one tier.
package practice

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/router"
	"github.com/abhisek/sqltutor/internal/screen"
	"github.com/abhisek/sqltutor/internal/screens/summary"
	"github.com/abhisek/sqltutor/internal/tutor"
	"github.com/abhisek/sqltutor/internal/ui/components"
	"github.com/abhisek/sqltutor/internal/ui/layout"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

type phase int

const (
	phaseLoading phase = iota // picking or generating an exercise
	phaseEditing              // writing a query
	phaseChecking             // query submitted
	phaseReview               // wrong attempt, choosing what to do next
	phaseDone                 // solved, revealed or out of attempts
)

// Options offered after a wrong attempt, in menu order.
const (
	optTryAgain = iota
	optSolution
	optAIHelp
	optNext
)

// PracticeScreen implements screen.Screen for a practice run on one tier.
type PracticeScreen struct {
	tutor *tutor.Tutor
	tier  exercises.Tier
	ctx   context.Context

	phase    phase
	spinner  spinner.Model
	editor   components.SQLEditor
	options  components.Choice
	viewport viewport.Model

	practice *tutor.Practice
	info     tutor.NextInfo
	outcome  *tutor.Outcome

	hint         string
	hintAI       bool
	hintPending  bool
	feedback     string
	feedbackAI   bool
	feedbackWait bool
	solution     string
	notice       string
	errMsg       string

	// Finished exercises, for the summary.
	started  time.Time
	results  []summary.Result
	recorded bool
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a practice screen for tier.
func New(t *tutor.Tutor, tier exercises.Tier) *PracticeScreen {
	return &PracticeScreen{
		tutor: t,
		tier:  tier,
		ctx:   context.Background(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
		editor:   components.NewSQLEditor("SELECT ... ;", 76, 5),
		options:  components.NewChoice("Try again", "Show solution", "AI help", "Next exercise"),
		viewport: viewport.New(),
		started:  time.Now(),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.loadNext(), s.spinner.Tick)
}

func (s *PracticeScreen) Title() string {
	return s.tier.Title() + " Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	switch s.phase {
	case phaseEditing:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Newline / submit after ;"},
			{Key: "Ctrl+G", Description: "Hint"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseReview:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Choose"},
			{Key: "PgUp/PgDn", Description: "Scroll"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseDone:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next exercise"},
			{Key: "q", Description: "Finish"},
			{Key: "PgUp/PgDn", Description: "Scroll"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exerciseReadyMsg:
		return s.handleExercise(msg)

	case submitDoneMsg:
		if !s.current(msg.SessionID) {
			return s, nil
		}
		return s.handleOutcome(msg)

	case hintReadyMsg:
		if s.current(msg.SessionID) {
			s.hint, s.hintAI, s.hintPending = msg.Text, msg.FromAI, false
		}
		return s, nil

	case feedbackReadyMsg:
		if s.current(msg.SessionID) {
			s.feedback, s.feedbackAI, s.feedbackWait = msg.Text, msg.FromAI, false
		}
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseEditing {
		var cmd tea.Cmd
		s.editor, cmd, _ = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleExercise(msg exerciseReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.practice = s.tutor.Start(msg.Exercise)
	s.info = msg.Info
	s.outcome = nil
	s.hint, s.hintAI, s.hintPending = "", false, false
	s.feedback, s.feedbackAI, s.feedbackWait = "", false, false
	s.solution, s.notice = "", ""
	s.recorded = false
	s.editor.Reset()
	s.viewport.GotoTop()
	s.phase = phaseEditing
	return s, s.editor.Init()
}

func (s *PracticeScreen) handleOutcome(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, tutor.ErrEmptyQuery):
		s.notice = "Please enter a query."
		s.phase = phaseEditing
		return s, nil
	case msg.Err != nil:
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	out := msg.Outcome
	s.outcome = out
	s.notice = ""
	s.viewport.GotoTop()

	switch {
	case out.Correct():
		s.phase = phaseDone
		s.record(false)
		return s, nil
	case out.Exhausted:
		s.phase = phaseDone
		s.record(false)
		s.solution = out.Solution
		s.hint, s.hintAI = out.StaticHint, false
		return s, s.fetchFeedback()
	}

	s.phase = phaseReview
	s.options.Reset()
	s.hint, s.hintAI = out.StaticHint, false
	if s.tutor.AIAvailable() {
		return s, s.fetchHint()
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	switch msg.String() {
	case "pgup":
		s.viewport.PageUp()
		return s, nil
	case "pgdown":
		s.viewport.PageDown()
		return s, nil
	}

	switch s.phase {
	case phaseEditing:
		if msg.String() == "ctrl+g" {
			return s, s.fetchHint()
		}
		var (
			cmd       tea.Cmd
			submitted bool
		)
		s.editor, cmd, submitted = s.editor.Update(msg)
		if submitted {
			return s, s.submit()
		}
		return s, cmd

	case phaseReview:
		s.options, _ = s.options.Update(msg)
		return s.handleOption()

	case phaseDone:
		switch msg.String() {
		case "enter", "n", "space":
			return s, s.loadNext()
		case "q":
			sum := s.Summary()
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: summary.New(sum)}
			}
		}
	}
	return s, nil
}

// handleOption acts on a picked post-attempt option.
func (s *PracticeScreen) handleOption() (screen.Screen, tea.Cmd) {
	switch s.options.Chosen {
	case optTryAgain:
		s.phase = phaseEditing
		return s, s.editor.Init()
	case optSolution:
		s.solution = s.practice.Reveal()
		s.phase = phaseDone
		s.record(true)
		return s, s.fetchFeedback()
	case optAIHelp:
		s.options.Reset()
		return s, s.fetchFeedback()
	case optNext:
		s.practice.Reveal()
		s.record(false)
		return s, s.loadNext()
	}
	return s, nil
}

// record adds the current exercise to the run results once.
func (s *PracticeScreen) record(revealed bool) {
	if s.practice == nil || s.recorded {
		return
	}
	s.recorded = true

	ex := s.practice.Exercise()
	attempts := s.practice.Attempts()
	r := summary.Result{
		ExerciseID: ex.ID,
		Question:   ex.Question,
		Attempts:   len(attempts),
		Revealed:   revealed,
		Generated:  ex.Generated,
	}
	if n := len(attempts); n > 0 && attempts[n-1].Correct {
		r.Solved = true
	}
	s.results = append(s.results, r)
}

// Summary describes the run so far.
func (s *PracticeScreen) Summary() summary.Summary {
	done, total := s.tutor.Progress(s.tier)
	return summary.Summary{
		Tier:     s.tier,
		Duration: time.Since(s.started),
		Results:  append([]summary.Result(nil), s.results...),
		Done:     done,
		Total:    total,
	}
}

func (s *PracticeScreen) loadNext() tea.Cmd {
	s.phase = phaseLoading
	t, tier, ctx := s.tutor, s.tier, s.ctx
	return tea.Batch(func() tea.Msg {
		ex, info, err := t.Next(ctx, tier)
		return exerciseReadyMsg{Exercise: ex, Info: info, Err: err}
	}, s.spinner.Tick)
}

func (s *PracticeScreen) submit() tea.Cmd {
	s.phase = phaseChecking
	p, ctx, sql := s.practice, s.ctx, s.editor.Value()
	return tea.Batch(func() tea.Msg {
		out, err := p.Submit(ctx, sql)
		return submitDoneMsg{SessionID: p.SessionID(), Outcome: out, Err: err}
	}, s.spinner.Tick)
}

func (s *PracticeScreen) fetchHint() tea.Cmd {
	s.hintPending = true
	p, ctx := s.practice, s.ctx
	return tea.Batch(func() tea.Msg {
		text, fromAI := p.Hint(ctx)
		return hintReadyMsg{SessionID: p.SessionID(), Text: text, FromAI: fromAI}
	}, s.spinner.Tick)
}

func (s *PracticeScreen) fetchFeedback() tea.Cmd {
	s.feedbackWait = true
	p, ctx := s.practice, s.ctx
	return tea.Batch(func() tea.Msg {
		text, fromAI := p.Feedback(ctx)
		return feedbackReadyMsg{SessionID: p.SessionID(), Text: text, FromAI: fromAI}
	}, s.spinner.Tick)
}

// current reports whether id belongs to the practice on screen.
func (s *PracticeScreen) current(id string) bool {
	return s.practice != nil && s.practice.SessionID() == id
}
