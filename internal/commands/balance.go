package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/report"
)

func newBalanceCommand() *cobra.Command {
	var user int64

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show current balances per currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dataDir(cmd))
			if err != nil {
				return err
			}
			if err := e.requireRegistered(user); err != nil {
				return err
			}

			for _, c := range e.store.Currencies() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s balance: %s\n",
					c, report.FormatAmount(e.store.CurrentBalance(user, c), c))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&user, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
