package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
	"github.com/nakamart/nakamart_backend/internal/utils/pagination"
)

// NewRepositoryProvider assembles all repositories over one in-memory store.
// The feed cache is attached separately by the caller since it is optional.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Store:       s,
		ListingRepo: s,
		AccountRepo: s,
		LedgerRepo:  s,
	}
}

// Read-side repository facades over the same record set the transactional
// store owns. Mutations here go through the same version counters, so an
// open trade transaction that read a record still conflicts correctly when
// one of these writes lands first.

// SaveListing persists a new listing.
func (s *Store) SaveListing(ctx context.Context, listing domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.listings[listing.ListingID]; exists {
		return fmt.Errorf("listing %s: %w", listing.ListingID, apperrors.ErrDuplicate)
	}
	s.listings[listing.ListingID] = listingRecord{data: copyListing(listing), version: 1}
	return nil
}

// FindListingByID retrieves a listing by its ID.
func (s *Store) FindListingByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.listings[listingID]
	if !ok {
		return nil, fmt.Errorf("listing %s: %w", listingID, apperrors.ErrNotFound)
	}
	l := copyListing(rec.data)
	return &l, nil
}

// ListActiveListings retrieves a page of ACTIVE listings of the given type,
// newest first.
func (s *Store) ListActiveListings(ctx context.Context, listingType domain.ListingType, limit int, nextToken *string) ([]domain.Listing, *string, error) {
	s.mu.Lock()
	matched := make([]domain.Listing, 0)
	for _, rec := range s.listings {
		if rec.data.Status == domain.ListingActive && rec.data.Type == listingType {
			matched = append(matched, copyListing(rec.data))
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ListingID > matched[j].ListingID
	})

	start := 0
	if nextToken != nil {
		afterTime, afterID, err := decodePageToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		for i, l := range matched {
			if l.CreatedAt.Before(afterTime) || (l.CreatedAt.Equal(afterTime) && l.ListingID < afterID) {
				start = i
				break
			}
			start = len(matched)
		}
	}

	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	page := matched[start:end]

	var newToken *string
	if end < len(matched) {
		last := page[len(page)-1]
		token := encodePageToken(last.CreatedAt, last.ListingID)
		newToken = &token
	}
	return page, newToken, nil
}

// SaveAccount persists a new account with its credentials.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.creds[email]; exists {
		return fmt.Errorf("email %s: %w", email, apperrors.ErrDuplicate)
	}
	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	s.accounts[account.AccountID] = accountRecord{data: account, version: 1}
	s.creds[email] = credentials{accountID: account.AccountID, passwordHash: passwordHash}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	a := rec.data
	return &a, nil
}

// UpdateProfile updates the mutable profile fields of an account.
// The wallet fields keep their stored values: profile edits must not race
// trades into overwriting balances.
func (s *Store) UpdateProfile(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.accounts[account.AccountID]
	if !ok {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
	}
	updated := rec.data
	updated.DisplayName = account.DisplayName
	updated.Bio = account.Bio
	updated.AvatarURL = account.AvatarURL
	updated.LastUpdatedAt = account.LastUpdatedAt
	s.accounts[account.AccountID] = accountRecord{data: updated, version: rec.version + 1}
	return nil
}

// FindCredentialsByEmail returns the account ID and password hash for an email.
func (s *Store) FindCredentialsByEmail(ctx context.Context, email string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[email]
	if !ok {
		return "", "", fmt.Errorf("credentials for %s: %w", email, apperrors.ErrNotFound)
	}
	return cred.accountID, cred.passwordHash, nil
}

// ListEntriesByAccount retrieves a page of ledger entries where the account
// is either side of the transfer, newest first.
func (s *Store) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	s.mu.Lock()
	matched := make([]domain.LedgerEntry, 0)
	for _, e := range s.ledger {
		if e.FromAccountID == accountID || e.ToAccountID == accountID {
			matched = append(matched, e)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].EntryID > matched[j].EntryID
	})

	start := 0
	if nextToken != nil {
		afterTime, afterID, err := decodePageToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		for i, e := range matched {
			if e.CreatedAt.Before(afterTime) || (e.CreatedAt.Equal(afterTime) && e.EntryID < afterID) {
				start = i
				break
			}
			start = len(matched)
		}
	}

	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	page := matched[start:end]

	var newToken *string
	if end < len(matched) {
		last := page[len(page)-1]
		token := encodePageToken(last.CreatedAt, last.EntryID)
		newToken = &token
	}
	return page, newToken, nil
}

// LedgerEntryCount reports the number of committed ledger entries.
// Exposed for tests asserting the one-entry-per-trade invariant.
func (s *Store) LedgerEntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ledger)
}

func encodePageToken(t time.Time, id string) string {
	return pagination.EncodeMultiFieldToken(t.Format(time.RFC3339Nano), id)
}

func decodePageToken(token string) (time.Time, string, error) {
	fields, err := pagination.DecodeMultiFieldToken(token)
	if err != nil {
		return time.Time{}, "", err
	}
	if len(fields) != 2 {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (field count)")
	}
	t, err := time.Parse(time.RFC3339Nano, fields[0])
	if err != nil {
		return time.Time{}, "", err
	}
	return t, fields[1], nil
}
