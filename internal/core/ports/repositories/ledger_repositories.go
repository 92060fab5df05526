package repositories

import (
	"context"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
)

// LedgerReader defines read operations over the append-only ledger.
// There is deliberately no writer interface: the exchange engine appends
// entries through the RecordStore and nothing else writes the ledger.
type LedgerReader interface {
	// ListEntriesByAccount retrieves a page of ledger entries where the account
	// is either side of the transfer, newest first.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}
