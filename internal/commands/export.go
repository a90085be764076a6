package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/report"
)

func newExportCommand() *cobra.Command {
	var user int64
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transaction history as a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dataDir(cmd))
			if err != nil {
				return err
			}
			if err := e.requireRegistered(user); err != nil {
				return err
			}

			txns := e.store.ListActive(user)
			if len(txns) == 0 {
				return fmt.Errorf("user %d has no transactions to export", user)
			}

			path := filepath.Join(out, report.ExportFileName(user, time.Now()))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			if err := report.ExportCSV(f, txns); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing export file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(txns), path)
			return nil
		},
	}

	cmd.Flags().Int64Var(&user, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVar(&out, "out", ".", "output directory")

	return cmd
}
