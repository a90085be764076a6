package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tally-dev/tally/internal/audit"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/logger"
	"github.com/tally-dev/tally/internal/registry"
)

// env holds everything a ledger command needs: config, registry, and an open
// store rooted at the data directory.
type env struct {
	dir   string
	cfg   *config.Config
	reg   *registry.Service
	store *ledger.Store
	log   zerolog.Logger
}

func openEnv(dir string) (*env, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("is %s an initialized ledger directory? %w", absDir, err)
	}

	reg, err := registry.Load(absDir)
	if err != nil {
		return nil, err
	}

	log := logger.New()
	store, err := ledger.Open(absDir, cfg.Currencies.Pair(), log)
	if err != nil {
		return nil, err
	}

	return &env{dir: absDir, cfg: cfg, reg: reg, store: store, log: log}, nil
}

// requireRegistered is the gatekeeper every ledger operation runs first.
func (e *env) requireRegistered(user int64) error {
	if !e.reg.IsRegistered(user) {
		return fmt.Errorf("user %d is not registered; run \"tally register\" first", user)
	}
	return nil
}

// recordMutation appends an audit entry and, when configured, snapshots the
// data directory with a git commit. Neither failure undoes the mutation
// itself; both are logged and swallowed.
func (e *env) recordMutation(actor int64, action string, txnID int64, details string) {
	entry := audit.Entry{
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Action:    action,
		TxnID:     txnID,
		Details:   details,
	}
	if err := audit.Append(e.dir, []audit.Entry{entry}); err != nil {
		e.log.Warn().Err(err).Str("action", action).Msg("audit append failed")
	}

	if !e.cfg.Git.AutoCommit || !gitops.IsRepo(e.dir) {
		return
	}
	author := gitops.Author{Name: e.cfg.Git.AuthorName, Email: e.cfg.Git.AuthorEmail}
	msg := fmt.Sprintf("%s: %s", action, details)
	if _, err := gitops.CommitAll(e.dir, msg, author); err != nil {
		e.log.Warn().Err(err).Str("action", action).Msg("auto-commit failed")
	}
}
