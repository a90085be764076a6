package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	err := Append(dir, []Entry{
		{Timestamp: ts, Actor: 42, Action: ActionRegister, Details: "Aziza"},
		{Timestamp: ts, Actor: 42, Action: ActionAppend, TxnID: 3, Details: "expense 50000 UZS"},
	})
	require.NoError(t, err)

	// Later appends reuse the existing file without a second header.
	err = Append(dir, []Entry{
		{Timestamp: ts.Add(time.Hour), Actor: 42, Action: ActionDelete, TxnID: 3},
	})
	require.NoError(t, err)

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, ActionRegister, entries[0].Action)
	assert.Equal(t, int64(0), entries[0].TxnID)
	assert.Equal(t, int64(3), entries[1].TxnID)
	assert.Equal(t, ActionDelete, entries[2].Action)
	assert.Equal(t, ts.Add(time.Hour), entries[2].Timestamp)

	raw, err := os.ReadFile(filepath.Join(dir, "logs", "audit.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(raw), Header))
}

func TestRead_MissingFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
