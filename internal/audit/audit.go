// Package audit keeps an append-only trail of ledger mutations, separate
// from the ledger itself: soft-deleted rows stay in ledger.csv, and the
// audit log records who asked for what, when.
package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp time.Time
	Actor     int64 // user id that triggered the mutation
	Action    string
	TxnID     int64 // 0 when the action has no single transaction
	Details   string
}

// Actions recorded in the log.
const (
	ActionRegister = "register"
	ActionAppend   = "append"
	ActionDelete   = "delete"
	ActionSettle   = "settle"
	ActionNotify   = "notify"
)

// Header is the CSV header for audit.csv.
const Header = "timestamp,actor,action,txn_id,details"

const (
	numFields    = 5
	logDir       = "logs"
	logFile      = "logs/audit.csv"
	colTimestamp = 0
	colActor     = 1
	colAction    = 2
	colTxnID     = 3
	colDetails   = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colActor] = strconv.FormatInt(e.Actor, 10)
	row[colAction] = e.Action
	if e.TxnID != 0 {
		row[colTxnID] = strconv.FormatInt(e.TxnID, 10)
	}
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	actor, err := strconv.ParseInt(record[colActor], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing actor %q: %w", record[colActor], err)
	}

	var txnID int64
	if record[colTxnID] != "" {
		txnID, err = strconv.ParseInt(record[colTxnID], 10, 64)
		if err != nil {
			return Entry{}, fmt.Errorf("parsing txn_id %q: %w", record[colTxnID], err)
		}
	}

	return Entry{
		Timestamp: ts,
		Actor:     actor,
		Action:    record[colAction],
		TxnID:     txnID,
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <dataDir>/logs/audit.csv, creating the file and
// header if needed.
func Append(dataDir string, entries []Entry) error {
	dir := filepath.Join(dataDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <dataDir>/logs/audit.csv. Returns an empty
// slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dataDir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
