package repositories

import (
	"context"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
)

// RecordStore is the transactional store the exchange engine runs against.
// Implementations must give the read set of an open transaction snapshot
// isolation, and must refuse to commit when any record read inside the
// transaction was modified by another committed transaction in the meantime.
type RecordStore interface {
	// Begin opens a new store transaction.
	Begin(ctx context.Context) (StoreTx, error)
}

// StoreTx is one open transaction against the record store.
//
// Reads join the transaction's read set; writes are staged until Commit,
// which applies every staged write atomically or none of them. Commit
// returns apperrors.ErrConflict when read-set validation fails and
// apperrors.ErrStoreUnavailable on transport or backend failure. A record
// that cannot be decoded into its schema is apperrors.ErrStoreContract.
//
// A transaction that is never committed has no observable effect; callers
// abandon one by calling Rollback, which is safe after Commit.
type StoreTx interface {
	// GetListing reads a listing into the read set.
	GetListing(ctx context.Context, listingID string) (*domain.Listing, error)

	// GetAccount reads an account into the read set.
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// PutListing stages an updated listing.
	PutListing(ctx context.Context, listing domain.Listing) error

	// PutAccount stages an updated account.
	PutAccount(ctx context.Context, account domain.Account) error

	// AppendLedgerEntry stages a new, write-once ledger entry.
	AppendLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error

	// Commit applies all staged writes atomically.
	Commit(ctx context.Context) error

	// Rollback abandons the transaction.
	Rollback(ctx context.Context) error
}
