package services

import (
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
	portssvc "github.com/nakamart/nakamart_backend/internal/core/ports/services"
	"github.com/nakamart/nakamart_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)

	listingOpts := []ListingServiceOption{}
	exchangeOpts := []ExchangeServiceOption{
		WithTradeRetryPolicy(TradeRetryPolicy{
			MaxAttempts: cfg.TradeMaxAttempts,
			BaseDelay:   cfg.TradeRetryBaseDelay,
			MaxDelay:    cfg.TradeRetryMaxDelay,
		}),
	}
	if repos.FeedCache != nil {
		listingOpts = append(listingOpts, WithFeedCache(repos.FeedCache))
		exchangeOpts = append(exchangeOpts, WithFeedCacheInvalidation(repos.FeedCache))
	}

	container.Listing = NewListingService(repos.ListingRepo, container.Account, listingOpts...)
	container.Exchange = NewExchangeService(repos.Store, exchangeOpts...)
	container.Ledger = NewLedgerService(repos.LedgerRepo)
	container.Token = NewTokenService(cfg)

	return container
}
