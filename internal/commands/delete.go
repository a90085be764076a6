package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/audit"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/report"
)

func newDeleteCommand() *cobra.Command {
	var user int64

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete a transaction and reconcile later balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing transaction id %q: %w", args[0], err)
			}

			e, err := openEnv(dataDir(cmd))
			if err != nil {
				return err
			}
			if err := e.requireRegistered(user); err != nil {
				return err
			}

			if err := e.store.SoftDelete(user, id); err != nil {
				if errors.Is(err, ledger.ErrNotFound) {
					return fmt.Errorf("no active transaction #%d for user %d", id, user)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Transaction #%d deleted.\n", id)
			for _, c := range e.store.Currencies() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s balance: %s\n",
					c, report.FormatAmount(e.store.CurrentBalance(user, c), c))
			}

			e.recordMutation(user, audit.ActionDelete, id, fmt.Sprintf("deleted #%d", id))
			return nil
		},
	}

	cmd.Flags().Int64Var(&user, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
