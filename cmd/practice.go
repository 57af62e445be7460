package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/repl"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice in line mode (SQL ends with a semicolon)",
	Long: `Start a line-mode practice session on stdin/stdout.

Queries may span several lines and end with ';'. Ctrl-D or Ctrl-C ends the
session. Useful over SSH, in scripts, or on terminals the full-screen UI
does not suit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tierVal, _ := cmd.Flags().GetString("tier")
		tier, err := exercises.ParseTier(tierVal)
		if err != nil {
			return err
		}

		e, t, err := openTutor(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		e.log.Info("line-mode practice started", zap.Stringer("tier", tier))
		return repl.New(t, tier, os.Stdin, os.Stdout, terminalWidth()).Run(ctx)
	},
}

func init() {
	practiceCmd.Flags().StringP("tier", "t", string(exercises.Beginner), "Difficulty tier: beginner, intermediate or advanced")
}
