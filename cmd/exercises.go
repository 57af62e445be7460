package cmd

import (
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/tutor"
	"github.com/abhisek/sqltutor/internal/ui/components"
)

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "Show example exercises for each tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		tierVal, _ := cmd.Flags().GetString("tier")
		all, _ := cmd.Flags().GetBool("all")
		solutions, _ := cmd.Flags().GetBool("solutions")

		tiers := exercises.Tiers()
		if tierVal != "" {
			t, err := exercises.ParseTier(tierVal)
			if err != nil {
				return err
			}
			tiers = []exercises.Tier{t}
		}

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.loadBank(); err != nil {
			return err
		}

		for i, t := range tiers {
			list := e.bank.ByTier(t)
			if !all {
				list = e.bank.Examples(t, tutor.ExampleCount)
			}
			if i > 0 {
				lipgloss.Println()
			}
			lipgloss.Println(components.TierHeading(t))
			lipgloss.Println(components.ExerciseList(list, solutions))
		}
		return nil
	},
}

func init() {
	exercisesCmd.Flags().StringP("tier", "t", "", "Only show one tier")
	exercisesCmd.Flags().Bool("all", false, "List every exercise instead of the first three")
	exercisesCmd.Flags().Bool("solutions", false, "Include the reference solutions")
}
