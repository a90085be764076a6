package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Header is the CSV header for ledger.csv.
const Header = "id,owner,timestamp,kind,category,amount,currency,balance,description,counterparty,due_date,debt_status,notified,is_deleted"

const (
	numFields      = 14
	timestampFmt   = time.RFC3339Nano
	dueDateFmt     = "2006-01-02"
	colID          = 0
	colOwner       = 1
	colTimestamp   = 2
	colKind        = 3
	colCategory    = 4
	colAmount      = 5
	colCurrency    = 6
	colBalance     = 7
	colDescription = 8
	colCparty      = 9
	colDueDate     = 10
	colDebtStatus  = 11
	colNotified    = 12
	colDeleted     = 13
)

// ReadTransactions reads all rows from a ledger.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes rows to a ledger.csv writer (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = strconv.FormatInt(txn.ID, 10)
	row[colOwner] = strconv.FormatInt(txn.Owner, 10)
	row[colTimestamp] = txn.Timestamp.UTC().Format(timestampFmt)
	row[colKind] = string(txn.Kind)
	row[colCategory] = txn.Category
	row[colAmount] = txn.Amount.String()
	row[colCurrency] = string(txn.Currency)
	row[colBalance] = txn.Balance.String()
	row[colDescription] = txn.Description

	if txn.Debt != nil {
		row[colCparty] = txn.Debt.Counterparty
		if !txn.Debt.DueDate.IsZero() {
			row[colDueDate] = txn.Debt.DueDate.Format(dueDateFmt)
		}
		row[colDebtStatus] = string(txn.Debt.Status)
		row[colNotified] = strconv.FormatBool(txn.Debt.Notified)
	}

	row[colDeleted] = strconv.FormatBool(txn.Deleted)
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.ParseInt(record[colID], 10, 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing id %q: %w", record[colID], err)
	}

	owner, err := strconv.ParseInt(record[colOwner], 10, 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing owner %q: %w", record[colOwner], err)
	}

	ts, err := time.Parse(timestampFmt, record[colTimestamp])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	balance, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	deleted, err := strconv.ParseBool(record[colDeleted])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing is_deleted %q: %w", record[colDeleted], err)
	}

	txn := model.Transaction{
		ID:          id,
		Owner:       owner,
		Timestamp:   ts,
		Kind:        model.Kind(record[colKind]),
		Category:    record[colCategory],
		Amount:      amount,
		Currency:    model.Currency(record[colCurrency]),
		Balance:     balance,
		Description: record[colDescription],
		Deleted:     deleted,
	}

	if txn.Class() == model.ClassDebt {
		debt := &model.DebtDetails{
			Counterparty: record[colCparty],
			Status:       model.DebtStatus(record[colDebtStatus]),
		}
		if debt.Status == "" {
			debt.Status = model.DebtOpen
		}
		if record[colDueDate] != "" {
			due, err := time.Parse(dueDateFmt, record[colDueDate])
			if err != nil {
				return model.Transaction{}, fmt.Errorf("parsing due_date %q: %w", record[colDueDate], err)
			}
			debt.DueDate = due
		}
		if record[colNotified] != "" {
			notified, err := strconv.ParseBool(record[colNotified])
			if err != nil {
				return model.Transaction{}, fmt.Errorf("parsing notified %q: %w", record[colNotified], err)
			}
			debt.Notified = notified
		}
		txn.Debt = debt
	}

	return txn, nil
}
