package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

type fakeLister []model.Transaction

func (f fakeLister) ListActive(owner int64) []model.Transaction {
	var out []model.Transaction
	for _, t := range f {
		if t.Owner == owner && !t.Deleted {
			out = append(out, t)
		}
	}
	return out
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func txn(owner int64, kind model.Kind, category string, amount string, currency model.Currency, ts time.Time) model.Transaction {
	return model.Transaction{
		Owner: owner, Kind: kind, Category: category,
		Amount: dec(amount), Currency: currency, Timestamp: ts,
	}
}

func TestAggregate(t *testing.T) {
	jan := Month(2026, time.January)
	inside := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	outside := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	src := fakeLister{
		txn(42, model.KindExpense, "Food", "300", model.CurrencyUZS, inside),
		txn(42, model.KindExpense, "Food", "200", model.CurrencyUZS, inside),
		txn(42, model.KindExpense, "Transport", "900", model.CurrencyUZS, inside),
		txn(42, model.KindExpense, "Food", "10", model.CurrencyUSD, inside),
		txn(42, model.KindIncome, "Salary", "5000", model.CurrencyUZS, inside), // wrong kind
		txn(42, model.KindExpense, "Bills", "100", model.CurrencyUZS, outside), // wrong period
		txn(7, model.KindExpense, "Food", "999", model.CurrencyUZS, inside),    // wrong owner
	}

	totals := Aggregate(src, 42, model.KindExpense, jan)
	require.Len(t, totals, 3)

	// Descending by total.
	assert.Equal(t, "Transport", totals[0].Category)
	assert.True(t, totals[0].Total.Equal(dec("900")))
	assert.Equal(t, "Food", totals[1].Category)
	assert.Equal(t, model.CurrencyUZS, totals[1].Currency)
	assert.True(t, totals[1].Total.Equal(dec("500")))
	assert.Equal(t, "Food", totals[2].Category)
	assert.Equal(t, model.CurrencyUSD, totals[2].Currency)
	assert.True(t, totals[2].Total.Equal(dec("10")))
}

func TestAggregate_ExcludesDeleted(t *testing.T) {
	jan := Month(2026, time.January)
	inside := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	deleted := txn(42, model.KindExpense, "Food", "300", model.CurrencyUZS, inside)
	deleted.Deleted = true

	totals := Aggregate(fakeLister{deleted}, 42, model.KindExpense, jan)
	assert.Empty(t, totals)
}

func TestAggregate_PeriodBoundsInclusive(t *testing.T) {
	jan := Month(2026, time.January)

	src := fakeLister{
		txn(42, model.KindExpense, "Food", "1", model.CurrencyUZS, jan.Start),
		txn(42, model.KindExpense, "Food", "2", model.CurrencyUZS, jan.End),
	}

	totals := Aggregate(src, 42, model.KindExpense, jan)
	require.Len(t, totals, 1)
	assert.True(t, totals[0].Total.Equal(dec("3")))
}

func TestRenderSummary(t *testing.T) {
	jan := Month(2026, time.January)
	totals := []CategoryTotal{
		{Category: "Transport", Currency: model.CurrencyUZS, Total: dec("900")},
		{Category: "Food", Currency: model.CurrencyUZS, Total: dec("500")},
		{Category: "Food", Currency: model.CurrencyUSD, Total: dec("10")},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, model.KindExpense, jan, totals))

	out := buf.String()
	assert.Contains(t, out, "Expense breakdown for January 2026")
	assert.Contains(t, out, "Transport")
	assert.Contains(t, out, "UZS total")
	assert.Contains(t, out, "USD total")
}

func TestRenderSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, model.KindExpense, Today(), nil))
	assert.Contains(t, buf.String(), "No expense entries found")
}
