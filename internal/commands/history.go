package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/report"
)

func newHistoryCommand() *cobra.Command {
	var user int64
	var page int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show transaction history, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dataDir(cmd))
			if err != nil {
				return err
			}
			if err := e.requireRegistered(user); err != nil {
				return err
			}

			txns := e.store.ListActive(user)
			p := report.HistoryPage(txns, page, e.cfg.History.PageSize)

			if p.Total > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Transaction history (page %d/%d)\n", p.Number, p.Total)
			}
			for _, line := range p.Lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&user, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().IntVar(&page, "page", 1, "page number")

	return cmd
}
