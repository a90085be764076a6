package report

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

const historyDateFmt = "02-Jan-2006"

// Page is one rendered page of transaction history.
type Page struct {
	Number int // 1-based
	Total  int
	Lines  []string
}

// FormatAmount renders an amount in its currency's display format.
func FormatAmount(amount decimal.Decimal, currency model.Currency) string {
	minor := amount.Shift(2).Round(0).IntPart()
	return money.New(minor, string(currency)).Display()
}

// HistoryPage paginates newest-first transactions at a fixed page size and
// renders the requested page. Page numbers out of range are clamped.
func HistoryPage(txns []model.Transaction, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = 5
	}
	total := (len(txns) + pageSize - 1) / pageSize
	if total == 0 {
		return Page{Number: 1, Total: 0, Lines: []string{"No transactions to display."}}
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(txns) {
		end = len(txns)
	}

	p := Page{Number: page, Total: total}
	for _, t := range txns[start:end] {
		p.Lines = append(p.Lines, renderEntry(t)...)
	}
	return p
}

func renderEntry(t model.Transaction) []string {
	sign := "+"
	if t.Kind == model.KindExpense {
		sign = "-"
	}

	lines := []string{fmt.Sprintf("#%d  %s  %s%s  %s",
		t.ID, t.Timestamp.Format(historyDateFmt), sign, FormatAmount(t.Amount, t.Currency), t.Category)}

	if t.Description != "" {
		lines = append(lines, "    "+t.Description)
	}
	if t.Debt != nil {
		debt := fmt.Sprintf("    lent to %s (%s)", t.Debt.Counterparty, t.Debt.Status)
		if !t.Debt.DueDate.IsZero() {
			debt += ", due " + t.Debt.DueDate.Format(historyDateFmt)
		}
		lines = append(lines, debt)
	}
	return lines
}
