package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func TestHistoryPage(t *testing.T) {
	ts := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	var txns []model.Transaction
	for i := 12; i >= 1; i-- { // newest first, as ListActive returns
		txns = append(txns, model.Transaction{
			ID: int64(i), Owner: 42, Timestamp: ts,
			Kind: model.KindExpense, Category: "Food",
			Amount: dec("10"), Currency: model.CurrencyUZS,
		})
	}

	p := HistoryPage(txns, 1, 5)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 3, p.Total)
	require.NotEmpty(t, p.Lines)
	assert.Contains(t, p.Lines[0], "#12")

	last := HistoryPage(txns, 3, 5)
	assert.Equal(t, 3, last.Number)
	assert.Contains(t, last.Lines[0], "#2")

	// Out-of-range pages clamp.
	clamped := HistoryPage(txns, 99, 5)
	assert.Equal(t, 3, clamped.Number)
}

func TestHistoryPage_Empty(t *testing.T) {
	p := HistoryPage(nil, 1, 5)
	assert.Equal(t, 0, p.Total)
	require.Len(t, p.Lines, 1)
	assert.Contains(t, p.Lines[0], "No transactions")
}

func TestHistoryPage_DebtEntry(t *testing.T) {
	txns := []model.Transaction{{
		ID: 5, Owner: 42,
		Timestamp: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Kind:      model.KindExpense, Category: model.CategoryDebt,
		Amount: dec("10000"), Currency: model.CurrencyUZS,
		Debt: &model.DebtDetails{
			Counterparty: "Aziz",
			DueDate:      time.Date(2026, 9, 25, 0, 0, 0, 0, time.UTC),
			Status:       model.DebtOpen,
		},
	}}

	p := HistoryPage(txns, 1, 5)
	joined := ""
	for _, l := range p.Lines {
		joined += l + "\n"
	}
	assert.Contains(t, joined, "lent to Aziz (open)")
	assert.Contains(t, joined, "due 25-Sep-2026")
}
