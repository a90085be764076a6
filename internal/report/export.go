package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
)

// ExportCSV writes transactions in the full ledger schema for download.
func ExportCSV(w io.Writer, txns []model.Transaction) error {
	if err := ledger.WriteTransactions(w, txns); err != nil {
		return fmt.Errorf("exporting transactions: %w", err)
	}
	return nil
}

// ExportFileName returns a collision-free name for an export artifact.
func ExportFileName(owner int64, now time.Time) string {
	return fmt.Sprintf("transactions_%d_%s_%s.csv",
		owner, now.UTC().Format("20060102"), uuid.NewString()[:8])
}
