package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// FileName is the ledger file inside a data directory.
const FileName = "ledger.csv"

// streamKey identifies one (owner, currency) balance stream.
type streamKey struct {
	owner    int64
	currency model.Currency
}

// table is an immutable-by-convention snapshot of the ledger. Mutations go
// through Store.commit, which works on a clone and swaps it in only after a
// successful write to disk.
type table struct {
	rows   []model.Transaction // ascending by ID
	byID   map[int64]int
	latest map[streamKey]int64 // ID of the newest non-deleted row per stream
	lastID int64
}

func newTable(rows []model.Transaction) *table {
	t := &table{
		rows:   rows,
		byID:   make(map[int64]int, len(rows)),
		latest: make(map[streamKey]int64),
	}
	for i, r := range rows {
		t.byID[r.ID] = i
		if r.ID > t.lastID {
			t.lastID = r.ID
		}
		if !r.Deleted {
			t.latest[streamKey{r.Owner, r.Currency}] = r.ID
		}
	}
	return t
}

func (t *table) clone() *table {
	rows := make([]model.Transaction, len(t.rows))
	for i, r := range t.rows {
		rows[i] = r.Clone()
	}
	byID := make(map[int64]int, len(t.byID))
	for id, i := range t.byID {
		byID[id] = i
	}
	latest := make(map[streamKey]int64, len(t.latest))
	for k, id := range t.latest {
		latest[k] = id
	}
	return &table{rows: rows, byID: byID, latest: latest, lastID: t.lastID}
}

func (t *table) append(txn model.Transaction) {
	t.byID[txn.ID] = len(t.rows)
	t.rows = append(t.rows, txn)
	if !txn.Deleted {
		t.latest[streamKey{txn.Owner, txn.Currency}] = txn.ID
	}
}

// balance returns the running balance of the latest non-deleted row in the
// stream, or zero. O(1) via the latest index.
func (t *table) balance(k streamKey) decimal.Decimal {
	id, ok := t.latest[k]
	if !ok {
		return decimal.Zero
	}
	return t.rows[t.byID[id]].Balance
}

// reconcile re-folds the tail of a stream after the row afterID was deleted:
// the baseline is the balance of the newest surviving row before it, and
// every later surviving row gets baseline + signed amount, in ID order. The
// stream's latest index is rebuilt along the way.
func (t *table) reconcile(k streamKey, afterID int64) {
	baseline := decimal.Zero
	var latestID int64
	for i := range t.rows {
		r := &t.rows[i]
		if r.Owner != k.owner || r.Currency != k.currency || r.Deleted {
			continue
		}
		if r.ID < afterID {
			baseline = r.Balance
			latestID = r.ID
			continue
		}
		baseline = baseline.Add(r.Signed())
		r.Balance = baseline
		latestID = r.ID
	}
	if latestID == 0 {
		delete(t.latest, k)
	} else {
		t.latest[k] = latestID
	}
}

// Store is the transaction store. It keeps the full ledger in memory, backed
// by ledger.csv; every mutation commits by atomically replacing the file and
// only then swapping the in-memory snapshot, so a failed commit leaves no
// trace in either place.
type Store struct {
	path       string
	currencies []model.Currency
	log        zerolog.Logger

	mu  sync.Mutex // guards tbl and file commits
	tbl *table

	smu     sync.Mutex
	streams map[streamKey]*sync.Mutex
}

// Open loads the ledger from dataDir, creating an empty store when no ledger
// file exists yet.
func Open(dataDir string, currencies []model.Currency, log zerolog.Logger) (*Store, error) {
	if len(currencies) == 0 {
		return nil, fmt.Errorf("opening ledger: no currencies configured")
	}

	path := filepath.Join(dataDir, FileName)
	var rows []model.Transaction
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// First run.
	case err != nil:
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	default:
		defer f.Close()
		rows, err = ReadTransactions(f)
		if err != nil {
			return nil, fmt.Errorf("loading ledger %s: %w", path, err)
		}
	}

	return &Store{
		path:       path,
		currencies: append([]model.Currency(nil), currencies...),
		log:        log,
		tbl:        newTable(rows),
		streams:    make(map[streamKey]*sync.Mutex),
	}, nil
}

// Currencies returns the configured currency pair.
func (s *Store) Currencies() []model.Currency {
	return append([]model.Currency(nil), s.currencies...)
}

// lockStreams acquires the stream mutexes for the given currencies of one
// owner, in sorted currency order so concurrent multi-stream operations
// cannot deadlock. The returned func releases them.
func (s *Store) lockStreams(owner int64, currencies []model.Currency) func() {
	sorted := append([]model.Currency(nil), currencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	locked := make([]*sync.Mutex, 0, len(sorted))
	for _, c := range sorted {
		m := s.streamMutex(streamKey{owner, c})
		m.Lock()
		locked = append(locked, m)
	}
	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}

func (s *Store) streamMutex(k streamKey) *sync.Mutex {
	s.smu.Lock()
	defer s.smu.Unlock()
	m, ok := s.streams[k]
	if !ok {
		m = &sync.Mutex{}
		s.streams[k] = m
	}
	return m
}

// commit applies mutate to a clone of the current table, writes the result to
// disk, and swaps it in. On any failure the previous state stays in place.
func (s *Store) commit(op string, mutate func(tbl *table) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.tbl.clone()
	if err := mutate(next); err != nil {
		return err
	}
	if err := s.writeTable(next); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	s.tbl = next
	return nil
}

func (s *Store) writeTable(t *table) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "ledger-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteTransactions(tmp, t.rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}
	return nil
}

// CurrentBalance returns the running balance of the latest non-deleted
// transaction for (owner, currency), or zero when the stream is empty.
func (s *Store) CurrentBalance(owner int64, currency model.Currency) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tbl.balance(streamKey{owner, currency})
}

// BatchResult is the outcome of AppendBatch.
type BatchResult struct {
	Balances map[model.Currency]decimal.Decimal // final balance per configured currency
	IDs      []int64                            // assigned IDs, in input order; skipped drafts contribute none
	Skipped  []ValidationError                  // rejected candidates, recovered locally
}

// AppendBatch processes drafts in order as one atomic unit. Malformed drafts
// are skipped without failing the batch; everything else either fully commits
// or fully rolls back.
func (s *Store) AppendBatch(owner int64, drafts []Draft) (BatchResult, error) {
	unlock := s.lockStreams(owner, s.currencies)
	defer unlock()

	res := BatchResult{Balances: make(map[model.Currency]decimal.Decimal, len(s.currencies))}
	for _, c := range s.currencies {
		res.Balances[c] = s.CurrentBalance(owner, c)
	}

	now := time.Now().UTC()
	var newRows []model.Transaction
	for i, d := range drafts {
		if reason := d.validate(s.currencies); reason != "" {
			res.Skipped = append(res.Skipped, ValidationError{Index: i, Reason: reason})
			continue
		}

		bal := res.Balances[d.Currency]
		if d.Kind == model.KindExpense {
			bal = bal.Sub(d.Amount)
		} else {
			bal = bal.Add(d.Amount)
		}
		res.Balances[d.Currency] = bal

		row := model.Transaction{
			Owner:       owner,
			Timestamp:   now,
			Kind:        d.Kind,
			Category:    d.Category,
			Amount:      d.Amount,
			Currency:    d.Currency,
			Balance:     bal,
			Description: d.Description,
		}
		if model.Classify(d.Category) == model.ClassDebt {
			row.Debt = &model.DebtDetails{
				Counterparty: d.Counterparty,
				DueDate:      d.DueDate,
				Status:       model.DebtOpen,
			}
		}
		newRows = append(newRows, row)
	}

	if len(newRows) == 0 {
		return res, nil
	}

	err := s.commit("append batch", func(tbl *table) error {
		for i := range newRows {
			tbl.lastID++
			newRows[i].ID = tbl.lastID
			tbl.append(newRows[i])
			res.IDs = append(res.IDs, newRows[i].ID)
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, err
	}

	s.log.Info().
		Int64("owner", owner).
		Int("added", len(res.IDs)).
		Int("skipped", len(res.Skipped)).
		Msg("batch appended")
	return res, nil
}

// Get returns the owner's transaction by ID, deleted or not.
func (s *Store) Get(owner, id int64) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.tbl.byID[id]
	if !ok || s.tbl.rows[i].Owner != owner {
		return model.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return s.tbl.rows[i].Clone(), nil
}

// ListActive returns all non-deleted transactions for the owner, newest
// ID first.
func (s *Store) ListActive(owner int64) []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Transaction
	for i := len(s.tbl.rows) - 1; i >= 0; i-- {
		r := s.tbl.rows[i]
		if r.Owner == owner && !r.Deleted {
			out = append(out, r.Clone())
		}
	}
	return out
}

// SoftDelete marks the transaction deleted and re-folds the running balances
// of every later transaction in the same (owner, currency) stream, as one
// atomic unit.
func (s *Store) SoftDelete(owner, id int64) error {
	currency, err := s.activeCurrency(owner, id)
	if err != nil {
		return err
	}

	unlock := s.lockStreams(owner, []model.Currency{currency})
	defer unlock()

	err = s.commit("soft delete", func(tbl *table) error {
		i, ok := tbl.byID[id]
		if !ok {
			return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
		}
		row := tbl.rows[i]
		if row.Owner != owner || row.Deleted {
			return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
		}
		tbl.rows[i].Deleted = true
		tbl.reconcile(streamKey{owner, row.Currency}, id)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("owner", owner).Int64("id", id).Msg("transaction deleted, balances reconciled")
	return nil
}

// SettleDebt transitions an open debt to paid and appends the matching
// repayment income in the same commit, so a crash can never leave the flip
// without the repayment or vice versa. Returns the repayment transaction.
func (s *Store) SettleDebt(owner, id int64) (model.Transaction, error) {
	currency, err := s.activeCurrency(owner, id)
	if err != nil {
		return model.Transaction{}, err
	}

	unlock := s.lockStreams(owner, []model.Currency{currency})
	defer unlock()

	var repayment model.Transaction
	err = s.commit("settle debt", func(tbl *table) error {
		i, ok := tbl.byID[id]
		if !ok {
			return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
		}
		row := tbl.rows[i]
		if row.Owner != owner || row.Deleted {
			return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
		}
		if row.Debt == nil || row.Class() != model.ClassDebt {
			return fmt.Errorf("transaction %d is not a debt: %w", id, ErrInvalidState)
		}
		if row.Debt.Status != model.DebtOpen {
			return fmt.Errorf("debt %d is already %s: %w", id, row.Debt.Status, ErrInvalidState)
		}

		details := *row.Debt
		details.Status = model.DebtPaid
		tbl.rows[i].Debt = &details

		tbl.lastID++
		repayment = model.Transaction{
			ID:          tbl.lastID,
			Owner:       owner,
			Timestamp:   time.Now().UTC(),
			Kind:        model.KindIncome,
			Category:    model.CategoryDebtRepayment,
			Amount:      row.Amount,
			Currency:    row.Currency,
			Balance:     tbl.balance(streamKey{owner, row.Currency}).Add(row.Amount),
			Description: "Repayment from " + details.Counterparty,
		}
		tbl.append(repayment)
		return nil
	})
	if err != nil {
		return model.Transaction{}, err
	}

	s.log.Info().Int64("owner", owner).Int64("debt", id).Int64("repayment", repayment.ID).Msg("debt settled")
	return repayment, nil
}

// FindDueUnnotified returns all open, non-deleted debts whose due date is on
// or before asOf and that have not been reminded about yet.
func (s *Store) FindDueUnnotified(asOf time.Time) []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []model.Transaction
	for _, r := range s.tbl.rows {
		if r.Deleted || r.Debt == nil || r.Class() != model.ClassDebt {
			continue
		}
		d := r.Debt
		if d.Status != model.DebtOpen || d.Notified || d.DueDate.IsZero() || d.DueDate.After(asOf) {
			continue
		}
		due = append(due, r.Clone())
	}
	return due
}

// MarkNotified flips the notified flag of a debt after a reminder was
// delivered. It is idempotent and silently ignores missing, deleted,
// non-debt, or already-notified transactions; only storage failures surface.
func (s *Store) MarkNotified(id int64) error {
	return s.commit("mark notified", func(tbl *table) error {
		i, ok := tbl.byID[id]
		if !ok {
			return nil
		}
		row := tbl.rows[i]
		if row.Deleted || row.Debt == nil || row.Debt.Notified {
			return nil
		}
		details := *row.Debt
		details.Notified = true
		tbl.rows[i].Debt = &details
		return nil
	})
}

// Fold recomputes the (owner, currency) balance from scratch over all
// non-deleted rows, ignoring the cached running balances. Audit helper.
func (s *Store) Fold(owner int64, currency model.Currency) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, r := range s.tbl.rows {
		if r.Owner == owner && r.Currency == currency && !r.Deleted {
			total = total.Add(r.Signed())
		}
	}
	return total
}

// activeCurrency resolves the currency of a non-deleted transaction owned by
// owner. The currency is immutable, so reading it outside the stream lock is
// safe; mutating operations re-verify existence inside their commit.
func (s *Store) activeCurrency(owner, id int64) (model.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.tbl.byID[id]
	if !ok {
		return "", fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	r := s.tbl.rows[i]
	if r.Owner != owner || r.Deleted {
		return "", fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return r.Currency, nil
}
