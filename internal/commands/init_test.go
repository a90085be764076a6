package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/audit"
	"github.com/tally-dev/tally/internal/commands"
)

// runTally executes the CLI in-process. A fresh command tree per call keeps
// flag state from leaking between invocations.
func runTally(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := commands.NewRootCommand()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func initLedger(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runTally(t, "init", dir)
	require.NoError(t, err, out)
	return dir
}

func TestInit(t *testing.T) {
	dir := initLedger(t)

	for _, name := range []string{"tally.yaml", "accounts.csv", "ledger.csv", "logs"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "%s should exist after init", name)
	}
}

func TestInit_RefusesExistingLedger(t *testing.T) {
	dir := initLedger(t)

	_, err := runTally(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already holds a ledger")
}

func TestLedgerFlow(t *testing.T) {
	dir := initLedger(t)

	out, err := runTally(t, "register", "--dir", dir, "--user", "42", "--name", "Aziza")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Registered user 42")

	// Free-text entry through the parser chain.
	out, err = runTally(t, "add", "--dir", dir, "--user", "42", "spent", "50k", "on", "food")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Logged 1 transaction(s): #1")

	// Explicit flags.
	out, err = runTally(t, "add", "--dir", dir, "--user", "42",
		"--kind", "income", "--amount", "200000", "--category", "Salary")
	require.NoError(t, err, out)
	assert.Contains(t, out, "#2")

	out, err = runTally(t, "balance", "--dir", dir, "--user", "42")
	require.NoError(t, err, out)
	assert.Contains(t, out, "UZS balance:")
	assert.Contains(t, out, "USD balance:")

	out, err = runTally(t, "history", "--dir", dir, "--user", "42")
	require.NoError(t, err, out)
	assert.Contains(t, out, "#2")

	out, err = runTally(t, "delete", "1", "--dir", dir, "--user", "42")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Transaction #1 deleted.")

	entries, err := audit.Read(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, audit.ActionRegister, entries[0].Action)
	assert.Equal(t, audit.ActionDelete, entries[len(entries)-1].Action)
}

func TestDebtFlow(t *testing.T) {
	dir := initLedger(t)

	_, err := runTally(t, "register", "--dir", dir, "--user", "42", "--name", "Aziza")
	require.NoError(t, err)

	out, err := runTally(t, "add", "--dir", dir, "--user", "42",
		"--kind", "expense", "--amount", "100000", "--category", "Debt",
		"--counterparty", "Aziz", "--due", "2026-09-25")
	require.NoError(t, err, out)
	assert.Contains(t, out, "#1")

	out, err = runTally(t, "remind", "--dir", dir, "--as-of", "2026-10-01")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Aziz")

	out, err = runTally(t, "settle", "1", "--dir", dir, "--user", "42")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Debt #1 marked as paid")

	// Settling twice is rejected.
	_, err = runTally(t, "settle", "1", "--dir", dir, "--user", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an open debt")
}

func TestUnregisteredUserIsRejected(t *testing.T) {
	dir := initLedger(t)

	_, err := runTally(t, "add", "--dir", dir, "--user", "7", "spent", "10", "on", "tea")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}
