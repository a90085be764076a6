package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/audit"
)

func newRegisterCommand() *cobra.Command {
	var user int64
	var name, contact string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a user (idempotent; re-running refreshes contact info)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dataDir(cmd))
			if err != nil {
				return err
			}

			account, err := e.reg.Register(user, contact, name)
			if err != nil {
				return err
			}

			e.recordMutation(user, audit.ActionRegister, 0, name)
			fmt.Fprintf(cmd.OutOrStdout(), "Registered user %d (%s)\n", account.UserID, account.DisplayName)
			return nil
		},
	}

	cmd.Flags().Int64Var(&user, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&contact, "contact", "", "contact info, e.g. phone number")

	return cmd
}
