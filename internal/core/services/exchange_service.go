package services

import (
	"errors"
	"fmt"
	"time"

	"context"

	"github.com/google/uuid"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
)

// tradeEngine performs a single trade attempt inside one store transaction.
// It holds no state across calls and no locks outside the store's own
// transaction scope; concurrency control is entirely the store's read-set
// validation at commit.
type tradeEngine struct {
	store portsrepo.RecordStore
	now   func() time.Time
}

func newTradeEngine(store portsrepo.RecordStore) *tradeEngine {
	return &tradeEngine{
		store: store,
		now:   time.Now,
	}
}

// attempt runs the full validate-mutate-commit protocol once.
//
// Reads join the transaction's read set, so a concurrent commit touching the
// listing or either account surfaces as apperrors.ErrConflict from Commit.
// Every failure before Commit leaves all records untouched.
func (e *tradeEngine) attempt(ctx context.Context, listingID, buyerID string) (*domain.TradeReceipt, error) {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	// No-op once the transaction has committed.
	defer tx.Rollback(ctx)

	listing, err := tx.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("listing %s: %w", listingID, apperrors.ErrNotFound)
		}
		return nil, err
	}

	buyer, err := tx.GetAccount(ctx, buyerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("buyer account %s: %w", buyerID, apperrors.ErrNotFound)
		}
		return nil, err
	}

	if listing.Status != domain.ListingActive {
		return nil, fmt.Errorf("listing %s has status %s: %w", listingID, listing.Status, apperrors.ErrAlreadySold)
	}
	if listing.SellerID == buyerID {
		return nil, fmt.Errorf("listing %s is owned by buyer %s: %w", listingID, buyerID, apperrors.ErrSelfTrade)
	}
	if buyer.Balance < listing.Price {
		return nil, fmt.Errorf("balance %d below price %d: %w", buyer.Balance, listing.Price, apperrors.ErrInsufficientFunds)
	}

	// Seller identity comes from the listing just read, never from the caller.
	seller, err := tx.GetAccount(ctx, listing.SellerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// An active listing pointing at a missing seller is corrupt data,
			// not a caller mistake.
			return nil, fmt.Errorf("listing %s references missing seller %s: %w", listingID, listing.SellerID, apperrors.ErrStoreContract)
		}
		return nil, err
	}

	now := e.now().UTC()

	buyer.Balance -= listing.Price
	buyer.NetWorth += listing.Price // item value counts toward holdings
	buyer.LastUpdatedAt = now

	seller.Balance += listing.Price
	seller.LastUpdatedAt = now

	listing.Status = listing.Type.TradedStatus()
	listing.BuyerID = buyerID

	entry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		FromAccountID: buyer.AccountID,
		ToAccountID:   seller.AccountID,
		Amount:        listing.Price,
		Kind:          domain.EntryTrade,
		ListingID:     listing.ListingID,
		CreatedAt:     now,
	}

	if err := tx.PutAccount(ctx, *buyer); err != nil {
		return nil, err
	}
	if err := tx.PutAccount(ctx, *seller); err != nil {
		return nil, err
	}
	if err := tx.PutListing(ctx, *listing); err != nil {
		return nil, err
	}
	if err := tx.AppendLedgerEntry(ctx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.TradeReceipt{
		ListingID:     listing.ListingID,
		ListingStatus: listing.Status,
		BuyerID:       buyer.AccountID,
		SellerID:      seller.AccountID,
		Price:         listing.Price,
		LedgerEntryID: entry.EntryID,
		ExecutedAt:    now,
	}, nil
}
