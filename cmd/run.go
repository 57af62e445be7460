package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sqltutor/internal/app"
)

// runApp opens the databases, builds the tutor, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, t, err := openTutor(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	tables, err := e.sample.Tables(cmd.Context())
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	return app.Run(app.Options{
		Tutor:  t,
		Tables: tables,
		Events: e.store.EventRepo(),
		Logger: e.log,
	})
}
