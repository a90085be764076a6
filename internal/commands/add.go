package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/audit"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/parse"
	"github.com/tally-dev/tally/internal/report"
)

func newAddCommand() *cobra.Command {
	var user int64
	var kind, amount, currency, category, description, counterparty, due string

	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Record transactions, from free text or explicit flags",
		Long: `Record one or more transactions.

With positional text, the candidate is extracted by the parser chain:

  tally add --user 42 spent 50k on food

With flags, the candidate is given explicitly:

  tally add --user 42 --kind expense --amount 100000 --category Debt \
      --counterparty Aziz --due 2026-09-25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dataDir(cmd))
			if err != nil {
				return err
			}
			if err := e.requireRegistered(user); err != nil {
				return err
			}

			var drafts []ledger.Draft
			if len(args) > 0 {
				pair := e.cfg.Currencies.Pair()
				chain := parse.NewRegistry(parse.NewFallbackParser(pair[0], pair[1]))
				drafts, err = chain.Parse(strings.Join(args, " "))
				if err != nil {
					return err
				}
				if len(drafts) == 0 {
					return fmt.Errorf("could not understand %q; try e.g. \"spent 50k on food\"", strings.Join(args, " "))
				}
			} else {
				draft, err := draftFromFlags(kind, amount, currency, category, description, counterparty, due, e.cfg.Currencies.Primary)
				if err != nil {
					return err
				}
				drafts = []ledger.Draft{draft}
			}

			res, err := e.store.AppendBatch(user, drafts)
			if err != nil {
				return err
			}

			for _, skipped := range res.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped %v\n", skipped)
			}
			if len(res.IDs) == 0 {
				return fmt.Errorf("no valid transactions in input")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged %d transaction(s): %s\n", len(res.IDs), formatIDs(res.IDs))
			for _, c := range e.store.Currencies() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s balance: %s\n", c, report.FormatAmount(res.Balances[c], c))
			}

			e.recordMutation(user, audit.ActionAppend, res.IDs[0], fmt.Sprintf("added %s", formatIDs(res.IDs)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&user, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVar(&kind, "kind", "", "income or expense")
	cmd.Flags().StringVar(&amount, "amount", "", "positive decimal amount")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (defaults to primary)")
	cmd.Flags().StringVar(&category, "category", "Other", "category label")
	cmd.Flags().StringVar(&description, "description", "", "free-text comment")
	cmd.Flags().StringVar(&counterparty, "counterparty", "", "who the money was lent to (Debt only)")
	cmd.Flags().StringVar(&due, "due", "", "expected return date, YYYY-MM-DD (Debt only)")

	return cmd
}

func draftFromFlags(kind, amount, currency, category, description, counterparty, due, primary string) (ledger.Draft, error) {
	if kind == "" || amount == "" {
		return ledger.Draft{}, fmt.Errorf("either free text or --kind and --amount are required")
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}

	if currency == "" {
		currency = primary
	}

	draft := ledger.Draft{
		Kind:         model.Kind(strings.ToLower(kind)),
		Amount:       amt,
		Currency:     model.Currency(strings.ToUpper(currency)),
		Category:     category,
		Description:  description,
		Counterparty: counterparty,
	}
	if due != "" {
		dueDate, err := time.Parse("2006-01-02", due)
		if err != nil {
			return ledger.Draft{}, fmt.Errorf("parsing due date %q: %w", due, err)
		}
		draft.DueDate = dueDate
	}
	return draft, nil
}

func formatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return strings.Join(parts, ", ")
}
