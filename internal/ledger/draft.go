package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Draft is a transaction candidate in the schema supplied by the extraction
// collaborator. The store performs no semantic validation beyond kind,
// positive amount, and a known currency.
type Draft struct {
	Kind         model.Kind
	Amount       decimal.Decimal
	Currency     model.Currency
	Category     string
	Description  string
	Counterparty string    // debts only
	DueDate      time.Time // debts only; zero when none
}

// validate returns a rejection reason, or "" when the draft is acceptable.
func (d Draft) validate(currencies []model.Currency) string {
	if !d.Kind.Valid() {
		return fmt.Sprintf("unknown kind %q", d.Kind)
	}
	if !d.Amount.IsPositive() {
		return fmt.Sprintf("amount must be positive, got %s", d.Amount)
	}
	for _, c := range currencies {
		if d.Currency == c {
			return ""
		}
	}
	return fmt.Sprintf("unsupported currency %q", d.Currency)
}
