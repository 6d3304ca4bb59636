package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile    string
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gradescope-reminder",
	Short: "gradescope-reminder emails you the gradescope assignments you have not submitted yet.",
	Long: `gradescope-reminder logs in to gradescope, checks every enrolled course for
assignments that have not been submitted and emails a summary of them.

Running it without a subcommand is the same as "gradescope-reminder run".`,
	SilenceUsage: true,
	RunE:         runReminder,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "The .env file to load environment variables from.")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "gradescope-reminder.json5", "The optional json5 config file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug information.")
	addRunFlags(rootCmd)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
