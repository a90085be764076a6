package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/tally-dev/tally/internal/model"
)

// FileName is the account file inside a data directory.
const FileName = "accounts.csv"

// Service maps external user identities to registered accounts. It gates
// nothing itself; callers check IsRegistered before permitting ledger
// operations.
type Service struct {
	dataDir string

	mu   sync.Mutex
	byID map[int64]model.Account
}

// Load reads accounts.csv from a data directory. A missing file yields an
// empty registry.
func Load(dataDir string) (*Service, error) {
	s := &Service{dataDir: dataDir, byID: make(map[int64]model.Account)}

	f, err := os.Open(filepath.Join(dataDir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accounts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	for _, a := range accounts {
		s.byID[a.UserID] = a
	}
	return s, nil
}

// IsRegistered reports whether the user has an account.
func (s *Service) IsRegistered(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[userID]
	return ok
}

// Get returns the account for a user.
func (s *Service) Get(userID int64) (model.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[userID]
	return a, ok
}

// All returns all accounts ordered by user ID.
func (s *Service) All() []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Account, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// Register upserts an account and persists the registry. Re-registration
// just refreshes contact info and display name; the registration timestamp
// of an existing account is kept.
func (s *Service) Register(userID int64, contact, displayName string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := model.Account{
		UserID:       userID,
		Contact:      contact,
		DisplayName:  displayName,
		RegisteredAt: time.Now().UTC(),
	}
	if existing, ok := s.byID[userID]; ok {
		account.RegisteredAt = existing.RegisteredAt
	}
	s.byID[userID] = account

	if err := s.save(); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

// save writes accounts.csv atomically. Callers must hold s.mu.
func (s *Service) save() error {
	accounts := make([]model.Account, 0, len(s.byID))
	for _, a := range s.byID {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].UserID < accounts[j].UserID })

	tmp, err := os.CreateTemp(s.dataDir, "accounts-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp accounts file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteAccounts(tmp, accounts); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp accounts file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dataDir, FileName)); err != nil {
		return fmt.Errorf("replacing accounts file: %w", err)
	}
	return nil
}

// Save persists the registry. Useful for scaffolding an empty file.
func (s *Service) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}
