package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
	"github.com/nakamart/nakamart_backend/internal/core/services"
	"github.com/nakamart/nakamart_backend/internal/repositories/memory"
)

// fastRetryPolicy keeps retry-heavy tests quick.
var fastRetryPolicy = services.TradeRetryPolicy{
	MaxAttempts: 5,
	BaseDelay:   time.Millisecond,
	MaxDelay:    5 * time.Millisecond,
}

func seedAccount(t *testing.T, store *memory.Store, balance int64) domain.Account {
	t.Helper()
	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		DisplayName: "tester",
		Balance:     balance,
		NetWorth:    balance,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	err := store.SaveAccount(context.Background(), account, account.AccountID+"@example.com", "hash")
	require.NoError(t, err)
	return account
}

func seedListing(t *testing.T, store *memory.Store, sellerID string, listingType domain.ListingType, price int64) domain.Listing {
	t.Helper()
	listing := domain.Listing{
		ListingID: uuid.NewString(),
		Type:      listingType,
		Title:     "vintage keyboard",
		Price:     price,
		SellerID:  sellerID,
		Status:    domain.ListingActive,
		CreatedAt: time.Now().UTC(),
	}
	err := store.SaveListing(context.Background(), listing)
	require.NoError(t, err)
	return listing
}

func TestExecuteTrade_CommitsAllMutationsAtomically(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	buyer := seedAccount(t, store, 100)
	listing := seedListing(t, store, seller.AccountID, domain.Sell, 50)

	svc := services.NewExchangeService(store)

	receipt, err := svc.ExecuteTrade(ctx, listing.ListingID, buyer.AccountID)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	assert.Equal(t, listing.ListingID, receipt.ListingID)
	assert.Equal(t, domain.ListingSold, receipt.ListingStatus)
	assert.Equal(t, buyer.AccountID, receipt.BuyerID)
	assert.Equal(t, seller.AccountID, receipt.SellerID)
	assert.Equal(t, int64(50), receipt.Price)
	assert.NotEmpty(t, receipt.LedgerEntryID)

	gotBuyer, err := store.FindAccountByID(ctx, buyer.AccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), gotBuyer.Balance)
	assert.Equal(t, int64(150), gotBuyer.NetWorth)

	gotSeller, err := store.FindAccountByID(ctx, seller.AccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), gotSeller.Balance)
	assert.Equal(t, int64(100), gotSeller.NetWorth)

	gotListing, err := store.FindListingByID(ctx, listing.ListingID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingSold, gotListing.Status)
	assert.Equal(t, buyer.AccountID, gotListing.BuyerID)

	entries, _, err := store.ListEntriesByAccount(ctx, buyer.AccountID, 10, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, buyer.AccountID, entries[0].FromAccountID)
	assert.Equal(t, seller.AccountID, entries[0].ToAccountID)
	assert.Equal(t, int64(50), entries[0].Amount)
	assert.Equal(t, domain.EntryTrade, entries[0].Kind)
	assert.Equal(t, listing.ListingID, entries[0].ListingID)
}

func TestExecuteTrade_WantedListingBecomesFulfilled(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	buyer := seedAccount(t, store, 100)
	listing := seedListing(t, store, seller.AccountID, domain.Wanted, 30)

	svc := services.NewExchangeService(store)

	receipt, err := svc.ExecuteTrade(ctx, listing.ListingID, buyer.AccountID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingFulfilled, receipt.ListingStatus)

	gotListing, err := store.FindListingByID(ctx, listing.ListingID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingFulfilled, gotListing.Status)
}

func TestExecuteTrade_FreeListingSucceedsWithZeroBalance(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	buyer := seedAccount(t, store, 0)
	listing := seedListing(t, store, seller.AccountID, domain.Sell, 0)

	svc := services.NewExchangeService(store)

	receipt, err := svc.ExecuteTrade(ctx, listing.ListingID, buyer.AccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), receipt.Price)
}

func TestExecuteTrade_InsufficientFundsLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	buyer := seedAccount(t, store, 40)
	listing := seedListing(t, store, seller.AccountID, domain.Sell, 50)

	svc := services.NewExchangeService(store)

	_, err := svc.ExecuteTrade(ctx, listing.ListingID, buyer.AccountID)
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	gotBuyer, err := store.FindAccountByID(ctx, buyer.AccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), gotBuyer.Balance)

	gotListing, err := store.FindListingByID(ctx, listing.ListingID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingActive, gotListing.Status)
	assert.Zero(t, store.LedgerEntryCount())
}

func TestExecuteTrade_SelfTradeRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	listing := seedListing(t, store, seller.AccountID, domain.Sell, 10)

	svc := services.NewExchangeService(store)

	_, err := svc.ExecuteTrade(ctx, listing.ListingID, seller.AccountID)
	require.ErrorIs(t, err, apperrors.ErrSelfTrade)
	assert.Zero(t, store.LedgerEntryCount())
}

func TestExecuteTrade_ListingNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	buyer := seedAccount(t, store, 100)

	svc := services.NewExchangeService(store)

	_, err := svc.ExecuteTrade(ctx, "no-such-listing", buyer.AccountID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExecuteTrade_BuyerNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	listing := seedListing(t, store, seller.AccountID, domain.Sell, 10)

	svc := services.NewExchangeService(store)

	_, err := svc.ExecuteTrade(ctx, listing.ListingID, "no-such-buyer")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExecuteTrade_ActiveListingWithMissingSellerIsCorruptData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	buyer := seedAccount(t, store, 100)
	listing := seedListing(t, store, "vanished-seller", domain.Sell, 10)

	svc := services.NewExchangeService(store)

	_, err := svc.ExecuteTrade(ctx, listing.ListingID, buyer.AccountID)
	require.ErrorIs(t, err, apperrors.ErrStoreContract)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)

	got, err := store.FindListingByID(ctx, listing.ListingID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingActive, got.Status)

	gotBuyer, err := store.FindAccountByID(ctx, buyer.AccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), gotBuyer.Balance)
	assert.Equal(t, 0, store.LedgerEntryCount())
}

func TestExecuteTrade_EmptyIDsRejectedWithoutStoreAccess(t *testing.T) {
	svc := services.NewExchangeService(memory.NewStore())

	_, err := svc.ExecuteTrade(context.Background(), "", "buyer")
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.ExecuteTrade(context.Background(), "listing", "")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestExecuteTrade_SecondPurchaseSeesAlreadySold(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	first := seedAccount(t, store, 100)
	second := seedAccount(t, store, 100)
	listing := seedListing(t, store, seller.AccountID, domain.Sell, 50)

	svc := services.NewExchangeService(store)

	_, err := svc.ExecuteTrade(ctx, listing.ListingID, first.AccountID)
	require.NoError(t, err)

	_, err = svc.ExecuteTrade(ctx, listing.ListingID, second.AccountID)
	require.ErrorIs(t, err, apperrors.ErrAlreadySold)

	// A duplicate request from the winner is not special-cased either; the
	// listing is terminal and no second charge can happen.
	_, err = svc.ExecuteTrade(ctx, listing.ListingID, first.AccountID)
	require.ErrorIs(t, err, apperrors.ErrAlreadySold)

	assert.Equal(t, 1, store.LedgerEntryCount())
}

func TestExecuteTrade_ConcurrentBuyersExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	listing := seedListing(t, store, seller.AccountID, domain.Sell, 50)

	const buyers = 8
	accounts := make([]domain.Account, buyers)
	for i := range accounts {
		accounts[i] = seedAccount(t, store, 100)
	}

	svc := services.NewExchangeService(store, services.WithTradeRetryPolicy(fastRetryPolicy))

	var wg sync.WaitGroup
	var successes atomic.Int32
	errs := make([]error, buyers)
	for i := range accounts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.ExecuteTrade(ctx, listing.ListingID, accounts[i].AccountID)
			if err == nil {
				successes.Add(1)
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, 1, store.LedgerEntryCount())

	for _, err := range errs {
		if err == nil {
			continue
		}
		assert.True(t,
			errors.Is(err, apperrors.ErrAlreadySold) || errors.Is(err, apperrors.ErrTradeContention),
			"unexpected loser error: %v", err)
	}

	// Exactly one price moved between wallets: total liquid OTC is conserved
	// and exactly one buyer paid.
	var total int64
	var paid int
	for _, a := range accounts {
		got, err := store.FindAccountByID(ctx, a.AccountID)
		require.NoError(t, err)
		total += got.Balance
		if got.Balance == 50 {
			paid++
		}
	}
	gotSeller, err := store.FindAccountByID(ctx, seller.AccountID)
	require.NoError(t, err)
	total += gotSeller.Balance

	assert.Equal(t, int64(100*(buyers+1)), total)
	assert.Equal(t, 1, paid)
	assert.Equal(t, int64(150), gotSeller.Balance)
}

// flakyStore fails the first n commits with a conflict, then delegates.
type flakyStore struct {
	inner     portsrepo.RecordStore
	conflicts atomic.Int32
	begins    atomic.Int32
}

func (f *flakyStore) Begin(ctx context.Context) (portsrepo.StoreTx, error) {
	f.begins.Add(1)
	tx, err := f.inner.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &flakyTx{StoreTx: tx, store: f}, nil
}

type flakyTx struct {
	portsrepo.StoreTx
	store *flakyStore
}

func (t *flakyTx) Commit(ctx context.Context) error {
	if t.store.conflicts.Add(-1) >= 0 {
		t.StoreTx.Rollback(ctx)
		return apperrors.ErrConflict
	}
	return t.StoreTx.Commit(ctx)
}

func TestExecuteTrade_RetriesConflictsUntilCommit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	buyer := seedAccount(t, store, 100)
	listing := seedListing(t, store, seller.AccountID, domain.Sell, 50)

	flaky := &flakyStore{inner: store}
	flaky.conflicts.Store(2)

	svc := services.NewExchangeService(flaky, services.WithTradeRetryPolicy(fastRetryPolicy))

	receipt, err := svc.ExecuteTrade(ctx, listing.ListingID, buyer.AccountID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingSold, receipt.ListingStatus)
	assert.Equal(t, int32(3), flaky.begins.Load())
	assert.Equal(t, 1, store.LedgerEntryCount())
}

func TestExecuteTrade_ExhaustedRetriesReportContention(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	buyer := seedAccount(t, store, 100)
	listing := seedListing(t, store, seller.AccountID, domain.Sell, 50)

	flaky := &flakyStore{inner: store}
	flaky.conflicts.Store(1000)

	svc := services.NewExchangeService(flaky, services.WithTradeRetryPolicy(fastRetryPolicy))

	_, err := svc.ExecuteTrade(ctx, listing.ListingID, buyer.AccountID)
	require.ErrorIs(t, err, apperrors.ErrTradeContention)
	assert.Equal(t, int32(fastRetryPolicy.MaxAttempts), flaky.begins.Load())
	assert.Zero(t, store.LedgerEntryCount())
}

func TestExecuteTrade_DomainFailuresAreNotRetried(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	buyer := seedAccount(t, store, 10)
	listing := seedListing(t, store, seller.AccountID, domain.Sell, 50)

	flaky := &flakyStore{inner: store}

	svc := services.NewExchangeService(flaky, services.WithTradeRetryPolicy(fastRetryPolicy))

	_, err := svc.ExecuteTrade(ctx, listing.ListingID, buyer.AccountID)
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.Equal(t, int32(1), flaky.begins.Load())
}

func TestExecuteTrade_StoreOutageSurfacesAfterRetries(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	buyer := seedAccount(t, store, 100)
	listing := seedListing(t, store, seller.AccountID, domain.Sell, 50)

	store.SetUnavailable(errors.New("connection refused"))

	svc := services.NewExchangeService(store, services.WithTradeRetryPolicy(fastRetryPolicy))

	_, err := svc.ExecuteTrade(ctx, listing.ListingID, buyer.AccountID)
	require.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, apperrors.ErrTradeContention)
}

// recordingFeedCache captures invalidations without a running Redis.
type recordingFeedCache struct {
	mu          sync.Mutex
	invalidated []domain.ListingType
}

func (c *recordingFeedCache) GetFeed(ctx context.Context, listingType domain.ListingType) (*domain.FeedPage, error) {
	return nil, apperrors.ErrNotFound
}

func (c *recordingFeedCache) SetFeed(ctx context.Context, listingType domain.ListingType, page domain.FeedPage) error {
	return nil
}

func (c *recordingFeedCache) InvalidateFeed(ctx context.Context, listingType domain.ListingType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, listingType)
	return nil
}

func TestExecuteTrade_InvalidatesFeedForTradedType(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedAccount(t, store, 100)
	buyer := seedAccount(t, store, 100)
	listing := seedListing(t, store, seller.AccountID, domain.Wanted, 20)

	cache := &recordingFeedCache{}
	svc := services.NewExchangeService(store, services.WithFeedCacheInvalidation(cache))

	_, err := svc.ExecuteTrade(ctx, listing.ListingID, buyer.AccountID)
	require.NoError(t, err)
	require.Len(t, cache.invalidated, 1)
	assert.Equal(t, domain.Wanted, cache.invalidated[0])
}
