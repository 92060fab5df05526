package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	"github.com/nakamart/nakamart_backend/internal/repositories/memory"
)

func newAccount(id string, balance int64) domain.Account {
	now := time.Now().UTC()
	return domain.Account{
		AccountID:   id,
		DisplayName: id,
		Balance:     balance,
		NetWorth:    balance,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
}

func newListing(id, sellerID string, price int64) domain.Listing {
	return domain.Listing{
		ListingID: id,
		Type:      domain.Sell,
		Title:     "test item",
		Price:     price,
		SellerID:  sellerID,
		Status:    domain.ListingActive,
		CreatedAt: time.Now().UTC(),
	}
}

func TestStoreTx_CommitAppliesStagedWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("a1", 100), "a1@example.com", "hash"))

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	account, err := tx.GetAccount(ctx, "a1")
	require.NoError(t, err)
	account.Balance = 70
	require.NoError(t, tx.PutAccount(ctx, *account))
	require.NoError(t, tx.Commit(ctx))

	got, err := store.FindAccountByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, int64(70), got.Balance)
}

func TestStoreTx_RollbackDiscardsStagedWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("a1", 100), "a1@example.com", "hash"))

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	account, err := tx.GetAccount(ctx, "a1")
	require.NoError(t, err)
	account.Balance = 0
	require.NoError(t, tx.PutAccount(ctx, *account))
	require.NoError(t, tx.Rollback(ctx))

	got, err := store.FindAccountByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Balance)
}

func TestStoreTx_ConflictWhenReadRecordChangesBeforeCommit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("seller", 100), "s@example.com", "hash"))
	require.NoError(t, store.SaveListing(ctx, newListing("l1", "seller", 50)))

	first, err := store.Begin(ctx)
	require.NoError(t, err)
	second, err := store.Begin(ctx)
	require.NoError(t, err)

	listingA, err := first.GetListing(ctx, "l1")
	require.NoError(t, err)
	listingB, err := second.GetListing(ctx, "l1")
	require.NoError(t, err)

	listingA.Status = domain.ListingSold
	require.NoError(t, first.PutListing(ctx, *listingA))
	require.NoError(t, first.Commit(ctx))

	listingB.Status = domain.ListingSold
	require.NoError(t, second.PutListing(ctx, *listingB))
	err = second.Commit(ctx)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	// The losing transaction left no writes behind.
	got, err := store.FindListingByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingSold, got.Status)
}

func TestStoreTx_ReadOnlyMemberOfReadSetStillConflicts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("a1", 100), "a1@example.com", "hash"))
	require.NoError(t, store.SaveAccount(ctx, newAccount("a2", 100), "a2@example.com", "hash"))

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	// a1 is only read, a2 is written.
	_, err = tx.GetAccount(ctx, "a1")
	require.NoError(t, err)
	a2, err := tx.GetAccount(ctx, "a2")
	require.NoError(t, err)

	// Concurrent profile update touches a1 before the commit.
	other, err := store.FindAccountByID(ctx, "a1")
	require.NoError(t, err)
	other.Bio = "changed"
	require.NoError(t, store.UpdateProfile(ctx, *other))

	a2.Balance = 50
	require.NoError(t, tx.PutAccount(ctx, *a2))
	require.ErrorIs(t, tx.Commit(ctx), apperrors.ErrConflict)
}

func TestStoreTx_MissingRecordReadConflictsWithConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("seller", 100), "s@example.com", "hash"))

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	// A not-found read still joins the read set at version zero.
	_, err = tx.GetListing(ctx, "l1")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, store.SaveListing(ctx, newListing("l1", "seller", 10)))

	account, err := tx.GetAccount(ctx, "seller")
	require.NoError(t, err)
	require.NoError(t, tx.PutAccount(ctx, *account))
	require.ErrorIs(t, tx.Commit(ctx), apperrors.ErrConflict)
}

func TestStoreTx_UseAfterCommitFails(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("a1", 100), "a1@example.com", "hash"))

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	_, err = tx.GetAccount(ctx, "a1")
	assert.ErrorIs(t, err, memory.ErrTxClosed)
	assert.ErrorIs(t, tx.Commit(ctx), memory.ErrTxClosed)
}

func TestStore_UnavailableFailsBeginAndCommit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("a1", 100), "a1@example.com", "hash"))

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	store.SetUnavailable(assert.AnError)

	_, err = store.Begin(ctx)
	require.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

	account, getErr := tx.GetAccount(ctx, "a1")
	require.NoError(t, getErr)
	require.NoError(t, tx.PutAccount(ctx, *account))
	require.ErrorIs(t, tx.Commit(ctx), apperrors.ErrStoreUnavailable)

	store.SetUnavailable(nil)
	_, err = store.Begin(ctx)
	require.NoError(t, err)
}

func TestStore_SaveAccountRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("a1", 100), "dup@example.com", "hash"))

	err := store.SaveAccount(ctx, newAccount("a2", 100), "dup@example.com", "hash")
	require.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestStore_ListActiveListingsPaginates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("seller", 100), "s@example.com", "hash"))

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		l := newListing(string(rune('a'+i)), "seller", 10)
		l.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, store.SaveListing(ctx, l))
	}

	page1, token, err := store.ListActiveListings(ctx, domain.Sell, 2, nil)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, token)
	assert.Equal(t, "e", page1[0].ListingID)
	assert.Equal(t, "d", page1[1].ListingID)

	page2, token, err := store.ListActiveListings(ctx, domain.Sell, 2, token)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.NotNil(t, token)
	assert.Equal(t, "c", page2[0].ListingID)
	assert.Equal(t, "b", page2[1].ListingID)

	page3, token, err := store.ListActiveListings(ctx, domain.Sell, 2, token)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Nil(t, token)
	assert.Equal(t, "a", page3[0].ListingID)
}

func TestStore_ListActiveListingsExcludesTerminalStatuses(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("seller", 100), "s@example.com", "hash"))

	active := newListing("active", "seller", 10)
	sold := newListing("sold", "seller", 10)
	sold.Status = domain.ListingSold
	archived := newListing("archived", "seller", 10)
	archived.Status = domain.ListingArchived
	require.NoError(t, store.SaveListing(ctx, active))
	require.NoError(t, store.SaveListing(ctx, sold))
	require.NoError(t, store.SaveListing(ctx, archived))

	listings, token, err := store.ListActiveListings(ctx, domain.Sell, 10, nil)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "active", listings[0].ListingID)
	assert.Nil(t, token)
}

func TestStore_UpdateProfileKeepsWalletFields(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("a1", 100), "a1@example.com", "hash"))

	updated := newAccount("a1", 0) // wallet fields in the argument are ignored
	updated.DisplayName = "renamed"
	updated.Bio = "hello"
	require.NoError(t, store.UpdateProfile(ctx, updated))

	got, err := store.FindAccountByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.DisplayName)
	assert.Equal(t, "hello", got.Bio)
	assert.Equal(t, int64(100), got.Balance)
}
