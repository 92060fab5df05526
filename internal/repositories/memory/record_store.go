package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
)

// ErrTxClosed is returned when a finished transaction is used again.
var ErrTxClosed = errors.New("transaction already closed")

const (
	kindListing = "listing"
	kindAccount = "account"
)

type recordKey struct {
	kind string
	id   string
}

type listingRecord struct {
	data    domain.Listing
	version uint64
}

type accountRecord struct {
	data    domain.Account
	version uint64
}

// Store is an in-memory record store with optimistic concurrency control.
//
// Every record carries a version. A transaction remembers the version of each
// record it read; Commit re-checks those versions under the store lock and
// aborts with apperrors.ErrConflict when any differ, which is exactly the
// contract the exchange engine relies on. The zero version stands for a
// record that did not exist at read time, so a concurrent create also
// conflicts.
//
// Store doubles as the dev-mode backend: it also implements the read-side
// repository facades used by the listing, account and ledger services.
type Store struct {
	mu        sync.Mutex
	listings  map[string]listingRecord
	accounts  map[string]accountRecord
	ledger    []domain.LedgerEntry
	creds     map[string]credentials // keyed by email
	closedErr error                  // forced failure for outage tests
}

type credentials struct {
	accountID    string
	passwordHash string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		listings: make(map[string]listingRecord),
		accounts: make(map[string]accountRecord),
		creds:    make(map[string]credentials),
	}
}

var (
	_ portsrepo.RecordStore             = (*Store)(nil)
	_ portsrepo.ListingRepositoryFacade = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerReader            = (*Store)(nil)
)

// SetUnavailable makes every subsequent transaction fail with the given
// error (nil restores normal operation). Tests use this to simulate outages.
func (s *Store) SetUnavailable(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closedErr = err
}

// Begin opens a new optimistic transaction.
func (s *Store) Begin(ctx context.Context) (portsrepo.StoreTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closedErr != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, s.closedErr)
	}
	return &storeTx{
		store:        s,
		readVersions: make(map[recordKey]uint64),
	}, nil
}

// storeTx is one open transaction. Reads snapshot the committed state and
// record versions; writes are staged until Commit.
type storeTx struct {
	store        *Store
	readVersions map[recordKey]uint64
	putListings  map[string]domain.Listing
	putAccounts  map[string]domain.Account
	newEntries   []domain.LedgerEntry
	done         bool
}

func (tx *storeTx) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	if tx.done {
		return nil, ErrTxClosed
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	rec, ok := tx.store.listings[listingID]
	key := recordKey{kindListing, listingID}
	if !ok {
		tx.readVersions[key] = 0
		return nil, fmt.Errorf("listing %s: %w", listingID, apperrors.ErrNotFound)
	}
	tx.readVersions[key] = rec.version
	l := copyListing(rec.data)
	return &l, nil
}

func (tx *storeTx) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if tx.done {
		return nil, ErrTxClosed
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	rec, ok := tx.store.accounts[accountID]
	key := recordKey{kindAccount, accountID}
	if !ok {
		tx.readVersions[key] = 0
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	tx.readVersions[key] = rec.version
	a := rec.data
	return &a, nil
}

func (tx *storeTx) PutListing(ctx context.Context, listing domain.Listing) error {
	if tx.done {
		return ErrTxClosed
	}
	if tx.putListings == nil {
		tx.putListings = make(map[string]domain.Listing)
	}
	tx.putListings[listing.ListingID] = copyListing(listing)
	return nil
}

func (tx *storeTx) PutAccount(ctx context.Context, account domain.Account) error {
	if tx.done {
		return ErrTxClosed
	}
	if tx.putAccounts == nil {
		tx.putAccounts = make(map[string]domain.Account)
	}
	tx.putAccounts[account.AccountID] = account
	return nil
}

func (tx *storeTx) AppendLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	if tx.done {
		return ErrTxClosed
	}
	tx.newEntries = append(tx.newEntries, entry)
	return nil
}

// Commit validates the read set and applies all staged writes atomically.
func (tx *storeTx) Commit(ctx context.Context) error {
	if tx.done {
		return ErrTxClosed
	}
	tx.done = true

	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	if tx.store.closedErr != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, tx.store.closedErr)
	}

	// Read-set validation: any record changed since it was read aborts the
	// whole transaction before a single write lands.
	for key, readVersion := range tx.readVersions {
		var current uint64
		switch key.kind {
		case kindListing:
			if rec, ok := tx.store.listings[key.id]; ok {
				current = rec.version
			}
		case kindAccount:
			if rec, ok := tx.store.accounts[key.id]; ok {
				current = rec.version
			}
		}
		if current != readVersion {
			return fmt.Errorf("%s %s modified concurrently: %w", key.kind, key.id, apperrors.ErrConflict)
		}
	}

	for id, listing := range tx.putListings {
		rec := tx.store.listings[id]
		tx.store.listings[id] = listingRecord{data: listing, version: rec.version + 1}
	}
	for id, account := range tx.putAccounts {
		rec := tx.store.accounts[id]
		tx.store.accounts[id] = accountRecord{data: account, version: rec.version + 1}
	}
	tx.store.ledger = append(tx.store.ledger, tx.newEntries...)

	return nil
}

// Rollback abandons the transaction. It is a no-op after Commit.
func (tx *storeTx) Rollback(ctx context.Context) error {
	tx.done = true
	return nil
}

func copyListing(l domain.Listing) domain.Listing {
	out := l
	out.Images = append([]string(nil), l.Images...)
	out.Tags = append([]string(nil), l.Tags...)
	return out
}
