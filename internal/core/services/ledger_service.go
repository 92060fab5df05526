package services

import (
	"context"
	"fmt"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
	portssvc "github.com/nakamart/nakamart_backend/internal/core/ports/services"
)

// ledgerService exposes the append-only ledger for reading.
// Nothing in this service mutates entries; the exchange engine is the sole
// writer and it writes through the record store.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerReader
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerReader) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ListEntriesByAccount retrieves a page of ledger entries touching an account.
// Accounts may only read their own ledger.
func (s *ledgerService) ListEntriesByAccount(ctx context.Context, accountID string, requestingAccountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if accountID == "" {
		return nil, nil, fmt.Errorf("%w: account ID must not be empty", apperrors.ErrValidation)
	}
	if accountID != requestingAccountID {
		return nil, nil, fmt.Errorf("ledger for account %s: %w", accountID, apperrors.ErrNotFound)
	}
	if limit <= 0 {
		limit = 20
	}
	return s.ledgerRepo.ListEntriesByAccount(ctx, accountID, limit, nextToken)
}
