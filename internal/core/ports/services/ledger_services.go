package services

import (
	"context"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
)

// LedgerSvcFacade exposes the append-only ledger for reading.
type LedgerSvcFacade interface {
	// ListEntriesByAccount retrieves a page of ledger entries touching an
	// account, newest first.
	ListEntriesByAccount(ctx context.Context, accountID string, requestingAccountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}
