package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/audit"
	"github.com/tally-dev/tally/internal/debt"
)

func newRemindCommand() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Scan for due debts and print reminders",
		Long: `Scan for open debts whose due date has arrived and that have not been
reminded about yet. Each printed reminder is marked as notified, so the next
scan stays quiet about it. Meant to be run from a scheduler.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dataDir(cmd))
			if err != nil {
				return err
			}

			cutoff := time.Now().UTC()
			if asOf != "" {
				cutoff, err = time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("parsing as-of date %q: %w", asOf, err)
				}
			}

			scanner := debt.NewScanner(e.store, debt.WriterNotifier{W: cmd.OutOrStdout()}, e.log)
			delivered, err := scanner.RunOnce(cmd.Context(), cutoff)
			if err != nil {
				return err
			}

			if delivered == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No due debts.")
				return nil
			}

			e.recordMutation(0, audit.ActionNotify, 0, fmt.Sprintf("%d reminders delivered", delivered))
			fmt.Fprintf(cmd.OutOrStdout(), "%d reminder(s) delivered.\n", delivered)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "scan cutoff date, YYYY-MM-DD (defaults to today)")

	return cmd
}
