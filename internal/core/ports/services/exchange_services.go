package services

import (
	"context"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
)

// ExchangeSvcFacade is the single caller-facing surface of the exchange core.
// ExecuteTrade either returns a receipt for a definitively committed trade or
// a definitive, typed failure; it never leaves a caller in a maybe state.
type ExchangeSvcFacade interface {
	// ExecuteTrade atomically transfers the listing to the buyer, moves the
	// price between the two balances, and appends one ledger entry.
	ExecuteTrade(ctx context.Context, listingID, buyerID string) (*domain.TradeReceipt, error)
}
