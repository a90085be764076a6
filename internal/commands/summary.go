package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/report"
)

func newSummaryCommand() *cobra.Command {
	var user int64
	var period, kind string
	var month, year int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Per-category totals for a period, grouped by currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dataDir(cmd))
			if err != nil {
				return err
			}
			if err := e.requireRegistered(user); err != nil {
				return err
			}

			p, err := resolvePeriod(period, year, month)
			if err != nil {
				return err
			}

			k := model.Kind(strings.ToLower(kind))
			if !k.Valid() {
				return fmt.Errorf("unknown kind %q, want income or expense", kind)
			}

			totals := report.Aggregate(e.store, user, k, p)
			return report.RenderSummary(cmd.OutOrStdout(), k, p, totals)
		},
	}

	cmd.Flags().Int64Var(&user, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVar(&period, "period", "month", "today, month, or year")
	cmd.Flags().StringVar(&kind, "kind", "expense", "income or expense")
	cmd.Flags().IntVar(&month, "month", 0, "specific month 1-12 (with --year)")
	cmd.Flags().IntVar(&year, "year", 0, "specific year (defaults to current)")

	return cmd
}

func resolvePeriod(period string, year, month int) (report.Period, error) {
	if month != 0 {
		if month < 1 || month > 12 {
			return report.Period{}, fmt.Errorf("month %d out of range", month)
		}
		if year == 0 {
			year = time.Now().UTC().Year()
		}
		return report.Month(year, time.Month(month)), nil
	}

	switch period {
	case "today":
		return report.Today(), nil
	case "month":
		return report.ThisMonth(), nil
	case "year":
		return report.ThisYear(), nil
	default:
		return report.Period{}, fmt.Errorf("unknown period %q, want today, month, or year", period)
	}
}
