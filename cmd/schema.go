package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/sqltutor/internal/ui/components"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the tables and columns of the sample database",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.openSample(); err != nil {
			return err
		}
		tables, err := e.sample.Tables(cmd.Context())
		if err != nil {
			return fmt.Errorf("read schema: %w", err)
		}

		lipgloss.Println(components.SchemaView(tables))
		return nil
	},
}
