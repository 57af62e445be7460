package cmd

import (
	"errors"
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/sqltutor/internal/exercisegen"
	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/tutor"
	"github.com/abhisek/sqltutor/internal/ui/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Preview AI-generated exercises for a tier",
	Long: `Generate exercises for a tier and print them with their reference
solutions and result sizes.

This is a developer tool for judging generation quality: nothing is added
to the exercise bank, but requests are recorded in the LLM log.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("tier", "t", string(exercises.Beginner), "Difficulty tier: beginner, intermediate or advanced")
	generateCmd.Flags().IntP("count", "n", 3, "Number of exercises to generate")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	tierVal, _ := cmd.Flags().GetString("tier")
	count, _ := cmd.Flags().GetInt("count")

	tier, err := exercises.ParseTier(tierVal)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	for _, step := range []func() error{e.openSample, e.openStore, e.loadBank} {
		if err := step(); err != nil {
			return err
		}
	}
	e.openProvider(ctx)
	if e.provider == nil {
		return errors.New("no AI provider configured; set ANTHROPIC_API_KEY or another provider key")
	}

	tables, err := e.sample.Tables(ctx)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	gcfg := exercisegen.DefaultConfig(e.sample)
	gcfg.Logger = e.log
	gen := exercisegen.New(e.provider, gcfg)

	label := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	sql := lipgloss.NewStyle().Foreground(theme.Secondary)

	lipgloss.Printf("Tier: %s, generating %d exercises...\n\n", tier.Title(), count)

	prior := e.bank.Questions(tier)
	var ok int
	for i := 1; i <= count; i++ {
		ex, err := gen.Generate(ctx, exercisegen.GenerateInput{
			Tier:           tier,
			Examples:       e.bank.Examples(tier, tutor.ExampleCount),
			Tables:         tables,
			PriorQuestions: prior,
			IDTaken:        e.bank.Has,
		})
		if err != nil {
			lipgloss.Println(theme.Incorrect.Render(fmt.Sprintf("Exercise %d: generation failed: %v", i, err)))
			lipgloss.Println()
			continue
		}
		ok++
		prior = append(prior, ex.Question)

		rows := "?"
		if rs, err := e.sample.Run(ctx, ex.Solution); err == nil {
			rows = fmt.Sprint(rs.Len())
		}

		lipgloss.Println(label.Render(fmt.Sprintf("── %s (%d/%d) ──", ex.ID, i, count)))
		lipgloss.Println(ex.Question)
		lipgloss.Println(theme.Hint.Render("Concepts: " + ex.ConceptList()))
		lipgloss.Println(sql.Render(ex.Solution))
		lipgloss.Println(theme.Hint.Render(fmt.Sprintf("Returns %s rows. Hint: %s", rows, ex.Hint)))
		lipgloss.Println()
	}

	lipgloss.Printf("── Summary: %d/%d generated ──\n", ok, count)
	return nil
}
