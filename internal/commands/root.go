package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal multi-currency transaction ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("dir", "d", ".", "ledger data directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newRegisterCommand(),
		newAddCommand(),
		newBalanceCommand(),
		newHistoryCommand(),
		newDeleteCommand(),
		newSettleCommand(),
		newSummaryCommand(),
		newExportCommand(),
		newRemindCommand(),
	)

	return rootCmd
}

// dataDir resolves the persistent --dir flag.
func dataDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil || dir == "" {
		return "."
	}
	return dir
}
