package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction as money in or money out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is a known transaction kind.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Currency is a currency code. A ledger is configured with exactly two of
// them; the store rejects drafts in any other currency.
type Currency string

// Default currency pair.
const (
	CurrencyUZS Currency = "UZS"
	CurrencyUSD Currency = "USD"
)

// DebtStatus is the lifecycle state of a lent-money transaction.
type DebtStatus string

const (
	DebtOpen DebtStatus = "open"
	DebtPaid DebtStatus = "paid"
)

// Category labels with engine-level meaning. All other labels are free-form
// and opaque.
const (
	CategoryDebt          = "Debt"
	CategoryDebtRepayment = "Debt Repayment"
)

// CategoryClass is the closed classification of a category label.
type CategoryClass string

const (
	ClassStandard      CategoryClass = "standard"
	ClassDebt          CategoryClass = "debt"
	ClassDebtRepayment CategoryClass = "debt-repayment"
)

// Classify maps a category label onto its class.
func Classify(category string) CategoryClass {
	switch category {
	case CategoryDebt:
		return ClassDebt
	case CategoryDebtRepayment:
		return ClassDebtRepayment
	default:
		return ClassStandard
	}
}

// DebtDetails is the payload attached only to Debt transactions.
type DebtDetails struct {
	Counterparty string
	DueDate      time.Time // zero when no due date was given
	Status       DebtStatus
	Notified     bool
}

// Transaction is one row of the ledger.
type Transaction struct {
	ID          int64
	Owner       int64
	Timestamp   time.Time
	Kind        Kind
	Category    string
	Amount      decimal.Decimal // always positive; Kind carries the sign
	Currency    Currency
	Balance     decimal.Decimal // owner's running balance in Currency after this row
	Description string
	Deleted     bool
	Debt        *DebtDetails // nil unless Class() == ClassDebt
}

// Class returns the category class of the transaction.
func (t Transaction) Class() CategoryClass {
	return Classify(t.Category)
}

// Signed returns the amount with the sign implied by Kind.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Clone returns a copy that shares no pointers with t.
func (t Transaction) Clone() Transaction {
	if t.Debt != nil {
		d := *t.Debt
		t.Debt = &d
	}
	return t
}
