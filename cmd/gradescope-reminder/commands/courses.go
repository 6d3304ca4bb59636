package commands

import (
	"os"

	"gradescope-reminder/internal/reminder"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(coursesCmd)
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Prints the courses of your gradescope account.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, scraper, _, err := login(cmd.Context())
		if err != nil {
			return err
		}

		courses, err := scraper.Courses(cmd.Context())
		if err != nil {
			return err
		}

		t := reminder.NewTable(os.Stdout)
		t.AppendHeader(table.Row{"Course", "Link"})
		for _, c := range courses {
			t.AppendRow(table.Row{c.Name, c.Url.String()})
		}
		t.Render()
		return nil
	},
}
