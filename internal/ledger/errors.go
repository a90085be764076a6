package ledger

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced transaction does not exist for
// the owner, or has already been soft-deleted.
var ErrNotFound = errors.New("transaction not found")

// ErrInvalidState is returned when a debt transition is attempted on a
// transaction that is not an open debt.
var ErrInvalidState = errors.New("invalid debt state")

// ValidationError describes a single rejected batch candidate. It is
// recovered locally: the candidate is skipped and the rest of the batch
// proceeds.
type ValidationError struct {
	Index  int // position in the submitted batch
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("candidate %d: %s", e.Index, e.Reason)
}

// StorageError wraps a durability-layer failure. Any operation that returns
// one has been rolled back completely.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage failure: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
