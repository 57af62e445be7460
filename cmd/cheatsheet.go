package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sqltutor/internal/cheatsheet"
)

var cheatsheetCmd = &cobra.Command{
	Use:   "cheatsheet",
	Short: "Print the SQL cheatsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			fmt.Print(cheatsheet.Markdown())
			return nil
		}
		fmt.Println(cheatsheet.Render(terminalWidth()))
		return nil
	},
}

func init() {
	cheatsheetCmd.Flags().Bool("raw", false, "Print the Markdown source")
}
