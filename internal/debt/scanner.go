package debt

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/report"
)

// Reminder is one due-debt notification handed to the external notifier.
type Reminder struct {
	ID           string // delivery id, unique per attempt
	Owner        int64
	TxnID        int64
	Counterparty string
	Amount       decimal.Decimal
	Currency     model.Currency
	DueDate      time.Time
}

// Notifier delivers a reminder to the user. Delivery is external; the scanner
// only records success.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// Source is the slice of the store the scanner reads and writes.
type Source interface {
	FindDueUnnotified(asOf time.Time) []model.Transaction
	MarkNotified(id int64) error
}

// Scanner finds open debts whose due date has arrived and pushes reminders.
// Running it twice without an intervening MarkNotified yields the same set,
// so the periodic trigger can fire as often as it likes.
type Scanner struct {
	src      Source
	notifier Notifier
	log      zerolog.Logger
}

// NewScanner creates a Scanner.
func NewScanner(src Source, notifier Notifier, log zerolog.Logger) *Scanner {
	return &Scanner{src: src, notifier: notifier, log: log}
}

// RunOnce scans for due unnotified debts as of asOf and delivers reminders.
// A failed delivery leaves the debt unnotified for the next scan; a failure
// to record a delivered reminder aborts the scan. Returns the number of
// reminders delivered and recorded.
func (s *Scanner) RunOnce(ctx context.Context, asOf time.Time) (int, error) {
	due := s.src.FindDueUnnotified(asOf)
	delivered := 0

	for _, txn := range due {
		if err := ctx.Err(); err != nil {
			return delivered, err
		}

		r := Reminder{
			ID:           uuid.NewString(),
			Owner:        txn.Owner,
			TxnID:        txn.ID,
			Counterparty: txn.Debt.Counterparty,
			Amount:       txn.Amount,
			Currency:     txn.Currency,
			DueDate:      txn.Debt.DueDate,
		}

		if err := s.notifier.Notify(ctx, r); err != nil {
			s.log.Error().Err(err).Int64("txn", txn.ID).Int64("owner", txn.Owner).Msg("reminder delivery failed")
			continue
		}

		if err := s.src.MarkNotified(txn.ID); err != nil {
			return delivered, fmt.Errorf("recording reminder for transaction %d: %w", txn.ID, err)
		}
		delivered++
		s.log.Info().Str("delivery", r.ID).Int64("txn", txn.ID).Int64("owner", txn.Owner).Msg("debt reminder sent")
	}
	return delivered, nil
}

// WriterNotifier renders reminders as plain text, for CLI runs.
type WriterNotifier struct {
	W io.Writer
}

// Notify implements Notifier.
func (n WriterNotifier) Notify(_ context.Context, r Reminder) error {
	_, err := fmt.Fprintf(n.W, "Debt reminder: %s was due to return %s on %s (transaction #%d)\n",
		r.Counterparty, report.FormatAmount(r.Amount, r.Currency), r.DueDate.Format("02-Jan-2006"), r.TxnID)
	return err
}
