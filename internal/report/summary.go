package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// ActiveLister is the read surface of the store the aggregator needs.
type ActiveLister interface {
	ListActive(owner int64) []model.Transaction
}

// CategoryTotal is one aggregation bucket.
type CategoryTotal struct {
	Category string
	Currency model.Currency
	Total    decimal.Decimal
}

// Aggregate sums the owner's non-deleted transactions of the given kind
// inside the period, grouped by (category, currency) and ordered by
// descending total. Pure read; reflects whatever the store holds right now.
func Aggregate(src ActiveLister, owner int64, kind model.Kind, p Period) []CategoryTotal {
	type bucket struct {
		category string
		currency model.Currency
	}
	totals := make(map[bucket]decimal.Decimal)

	for _, t := range src.ListActive(owner) {
		if t.Kind != kind || !p.Contains(t.Timestamp) {
			continue
		}
		b := bucket{t.Category, t.Currency}
		totals[b] = totals[b].Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for b, total := range totals {
		out = append(out, CategoryTotal{Category: b.category, Currency: b.currency, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}

// RenderSummary writes a per-currency breakdown with totals.
func RenderSummary(w io.Writer, kind model.Kind, p Period, totals []CategoryTotal) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintf(w, "No %s entries found for %s.\n", kind, p.Label)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s breakdown for %s\n", title(string(kind)), p.Label); err != nil {
		return err
	}

	// Keep currencies in order of first appearance (already sorted by total).
	var currencies []model.Currency
	seen := make(map[model.Currency]bool)
	for _, t := range totals {
		if !seen[t.Currency] {
			seen[t.Currency] = true
			currencies = append(currencies, t.Currency)
		}
	}

	for _, c := range currencies {
		sum := decimal.Zero
		for _, t := range totals {
			if t.Currency == c {
				sum = sum.Add(t.Total)
			}
		}
		if _, err := fmt.Fprintf(w, "\n%s total: %s\n", c, FormatAmount(sum, c)); err != nil {
			return err
		}
		for _, t := range totals {
			if t.Currency != c {
				continue
			}
			if _, err := fmt.Fprintf(w, "  %-20s %s\n", t.Category, FormatAmount(t.Total, c)); err != nil {
				return err
			}
		}
	}
	return nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
