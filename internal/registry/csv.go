package registry

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tally-dev/tally/internal/model"
)

const (
	numFields     = 4
	colUserID     = 0
	colContact    = 1
	colName       = 2
	colRegistered = 3
)

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"user_id", "contact", "display_name", "registered_at"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colUserID] = strconv.FormatInt(acct.UserID, 10)
	row[colContact] = acct.Contact
	row[colName] = acct.DisplayName
	row[colRegistered] = acct.RegisteredAt.UTC().Format(time.RFC3339)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	userID, err := strconv.ParseInt(record[colUserID], 10, 64)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing user_id %q: %w", record[colUserID], err)
	}

	registered, err := time.Parse(time.RFC3339, record[colRegistered])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing registered_at %q: %w", record[colRegistered], err)
	}

	return model.Account{
		UserID:       userID,
		Contact:      record[colContact],
		DisplayName:  record[colName],
		RegisteredAt: registered,
	}, nil
}
