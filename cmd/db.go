package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/sqldb"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the sample database",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the sample database",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		path, err := e.cfg.SamplePath()
		if err != nil {
			return fmt.Errorf("resolve sample DB path: %w", err)
		}
		if err := sqldb.Bootstrap(cmd.Context(), path, force); err != nil {
			return err
		}

		e.log.Info("sample database created", zap.String("path", path))
		fmt.Println("Sample database created at", path)
		return nil
	},
}

var dbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Run every reference solution against the sample database",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.openSample(); err != nil {
			return err
		}
		if err := e.loadBank(); err != nil {
			return err
		}

		ctx := cmd.Context()
		var failed int
		for _, tier := range exercises.Tiers() {
			for _, ex := range e.bank.ByTier(tier) {
				rs, err := e.sample.Run(ctx, ex.Solution)
				if err != nil {
					failed++
					fmt.Printf("✗ %-6s %v\n", ex.ID, err)
					continue
				}
				fmt.Printf("✓ %-6s %d rows\n", ex.ID, rs.Len())
			}
		}

		total := len(e.bank.All())
		fmt.Printf("\n%d/%d solutions ran cleanly\n", total-failed, total)
		if failed > 0 {
			return fmt.Errorf("%d reference solutions failed", failed)
		}
		return nil
	},
}

func init() {
	dbInitCmd.Flags().Bool("force", false, "Recreate the database if it already exists")

	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbCheckCmd)
}
