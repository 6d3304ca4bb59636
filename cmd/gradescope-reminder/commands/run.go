package commands

import (
	"errors"
	"fmt"
	"os"

	"gradescope-reminder/internal/notifier"
	"gradescope-reminder/internal/reminder"
	"gradescope-reminder/internal/scrapers/gradescope"

	"github.com/spf13/cobra"
)

var (
	noEmail       bool
	courseFilters []string
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noEmail, "no-email", false, "Print the summary without sending an email.")
	cmd.Flags().StringArrayVar(&courseFilters, "course", nil, "Only check courses whose name contains this (repeatable).")
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--no-email] [--course <name>...]",
	Short: "Checks every course for unsubmitted assignments and emails a summary.",
	RunE:  runReminder,
}

func runReminder(cmd *cobra.Command, args []string) error {
	cfg, tel, err := loadConfig()
	if err != nil {
		return err
	}
	scraper, err := newScraper(cfg, tel)
	if err != nil {
		return err
	}

	runner := reminder.NewRunner(
		scraper,
		notifier.NewNotifier(cfg.Smtp, tel),
		reminder.Options{
			Email:         cfg.Email,
			Password:      cfg.Password,
			CourseFilters: courseFilters,
			ForceTest:     cfg.ForceTest,
			NoEmail:       noEmail,
		},
		os.Stdout,
		tel,
	)

	_, err = runner.Run(cmd.Context())
	if errors.Is(err, gradescope.ErrLoginFailed) {
		return err
	}
	if err != nil {
		// the run is degraded but nothing is misconfigured
		fmt.Fprintln(os.Stdout, err)
	}
	return nil
}
