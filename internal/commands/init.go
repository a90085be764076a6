package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/registry"
)

func newInitCommand() *cobra.Command {
	var primary, secondary string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := dataDir(cmd)
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, primary, secondary)
		},
	}

	cmd.Flags().StringVar(&primary, "primary", "UZS", "primary currency code")
	cmd.Flags().StringVar(&secondary, "secondary", "USD", "secondary currency code")

	return cmd
}

func runInit(cmd *cobra.Command, dir, primary, secondary string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already holds a ledger", dir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating directory structure: %w", err)
	}

	cfg := config.Default()
	cfg.Currencies.Primary = primary
	cfg.Currencies.Secondary = secondary
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	// Empty registry and ledger files, so the repo diffs cleanly from day one.
	reg, err := registry.Load(dir)
	if err != nil {
		return err
	}
	if err := reg.Save(); err != nil {
		return err
	}

	ledgerFile, err := os.Create(filepath.Join(dir, ledger.FileName))
	if err != nil {
		return fmt.Errorf("creating ledger file: %w", err)
	}
	if err := ledger.WriteTransactions(ledgerFile, nil); err != nil {
		ledgerFile.Close()
		return err
	}
	if err := ledgerFile.Close(); err != nil {
		return fmt.Errorf("closing ledger file: %w", err)
	}

	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "note: git unavailable, snapshots disabled: %v\n", err)
		} else {
			author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
			if _, err := gitops.CommitAll(dir, "initialize ledger", author); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "note: initial commit skipped: %v\n", err)
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledger in %s (%s/%s)\n", dir, primary, secondary)
	return nil
}
