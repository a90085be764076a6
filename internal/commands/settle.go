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

func newSettleCommand() *cobra.Command {
	var user int64

	cmd := &cobra.Command{
		Use:   "settle <id>",
		Short: "Mark a debt as repaid and log the repayment income",
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

			repayment, err := e.store.SettleDebt(user, id)
			switch {
			case errors.Is(err, ledger.ErrNotFound):
				return fmt.Errorf("no active transaction #%d for user %d", id, user)
			case errors.Is(err, ledger.ErrInvalidState):
				return fmt.Errorf("transaction #%d is not an open debt", id)
			case err != nil:
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Debt #%d marked as paid; repayment #%d of %s logged.\n",
				id, repayment.ID, report.FormatAmount(repayment.Amount, repayment.Currency))

			e.recordMutation(user, audit.ActionSettle, id, fmt.Sprintf("repayment #%d", repayment.ID))
			return nil
		},
	}

	cmd.Flags().Int64Var(&user, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
