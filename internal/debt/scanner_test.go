package debt

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/logger"
	"github.com/tally-dev/tally/internal/model"
)

type fakeSource struct {
	txns     []model.Transaction
	notified map[int64]bool
	markErr  error
}

func newFakeSource(txns ...model.Transaction) *fakeSource {
	return &fakeSource{txns: txns, notified: make(map[int64]bool)}
}

func (f *fakeSource) FindDueUnnotified(asOf time.Time) []model.Transaction {
	var due []model.Transaction
	for _, t := range f.txns {
		if f.notified[t.ID] || t.Debt.DueDate.After(asOf) {
			continue
		}
		due = append(due, t)
	}
	return due
}

func (f *fakeSource) MarkNotified(id int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.notified[id] = true
	return nil
}

type recordingNotifier struct {
	reminders []Reminder
	failFor   int64 // txn id whose delivery fails
}

func (n *recordingNotifier) Notify(_ context.Context, r Reminder) error {
	if r.TxnID == n.failFor {
		return errors.New("delivery failed")
	}
	n.reminders = append(n.reminders, r)
	return nil
}

func debtTxn(id int64, counterparty string, due time.Time) model.Transaction {
	return model.Transaction{
		ID: id, Owner: 42, Kind: model.KindExpense,
		Category: model.CategoryDebt,
		Amount:   decimal.NewFromInt(10000), Currency: model.CurrencyUZS,
		Debt: &model.DebtDetails{Counterparty: counterparty, DueDate: due, Status: model.DebtOpen},
	}
}

func TestRunOnce_DeliversAndMarks(t *testing.T) {
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	src := newFakeSource(debtTxn(1, "Aziz", due), debtTxn(2, "Bek", due))
	notifier := &recordingNotifier{}
	scanner := NewScanner(src, notifier, logger.Nop())

	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	delivered, err := scanner.RunOnce(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)

	require.Len(t, notifier.reminders, 2)
	assert.Equal(t, "Aziz", notifier.reminders[0].Counterparty)
	assert.NotEmpty(t, notifier.reminders[0].ID)
	assert.NotEqual(t, notifier.reminders[0].ID, notifier.reminders[1].ID)
	assert.True(t, src.notified[1])
	assert.True(t, src.notified[2])

	// Everything already notified: a second run is a no-op.
	delivered, err = scanner.RunOnce(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 0, delivered)
}

func TestRunOnce_FailedDeliveryStaysUnnotified(t *testing.T) {
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	src := newFakeSource(debtTxn(1, "Aziz", due), debtTxn(2, "Bek", due))
	notifier := &recordingNotifier{failFor: 1}
	scanner := NewScanner(src, notifier, logger.Nop())

	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	delivered, err := scanner.RunOnce(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	assert.False(t, src.notified[1], "failed delivery must leave the debt due for the next scan")
	assert.True(t, src.notified[2])
}

func TestRunOnce_MarkFailureAborts(t *testing.T) {
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	src := newFakeSource(debtTxn(1, "Aziz", due))
	src.markErr = errors.New("disk gone")
	scanner := NewScanner(src, &recordingNotifier{}, logger.Nop())

	_, err := scanner.RunOnce(context.Background(), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := WriterNotifier{W: &buf}

	err := n.Notify(context.Background(), Reminder{
		ID: "d1", Owner: 42, TxnID: 7, Counterparty: "Aziz",
		Amount: decimal.NewFromInt(10000), Currency: model.CurrencyUZS,
		DueDate: time.Date(2026, 9, 25, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Aziz")
	assert.Contains(t, buf.String(), "#7")
	assert.Contains(t, buf.String(), "25-Sep-2026")
}
