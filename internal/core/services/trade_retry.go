package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
	portssvc "github.com/nakamart/nakamart_backend/internal/core/ports/services"
	"github.com/nakamart/nakamart_backend/internal/middleware"
)

// TradeRetryPolicy bounds the retry loop that absorbs store conflicts.
type TradeRetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultTradeRetryPolicy is the policy used when none is configured.
var DefaultTradeRetryPolicy = TradeRetryPolicy{
	MaxAttempts: 5,
	BaseDelay:   25 * time.Millisecond,
	MaxDelay:    400 * time.Millisecond,
}

// exchangeService drives tradeEngine attempts under a bounded retry policy.
// Only store-reported conflicts and outages are retried; domain failures
// surface immediately because re-reading cannot change their outcome.
type exchangeService struct {
	engine    *tradeEngine
	policy    TradeRetryPolicy
	feedCache portsrepo.FeedCache
	sleep     func(ctx context.Context, d time.Duration) error
}

// ExchangeServiceOption configures the exchange service.
type ExchangeServiceOption func(*exchangeService)

// WithTradeRetryPolicy overrides the default retry policy.
func WithTradeRetryPolicy(policy TradeRetryPolicy) ExchangeServiceOption {
	return func(s *exchangeService) {
		s.policy = policy
	}
}

// WithFeedCacheInvalidation invalidates the cached feed page for the traded
// listing's type after a successful commit.
func WithFeedCacheInvalidation(cache portsrepo.FeedCache) ExchangeServiceOption {
	return func(s *exchangeService) {
		s.feedCache = cache
	}
}

// NewExchangeService creates the exchange service over the given record store.
func NewExchangeService(store portsrepo.RecordStore, opts ...ExchangeServiceOption) portssvc.ExchangeSvcFacade {
	s := &exchangeService{
		engine: newTradeEngine(store),
		policy: DefaultTradeRetryPolicy,
		sleep:  sleepCtx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ExchangeSvcFacade = (*exchangeService)(nil)

// ExecuteTrade implements portssvc.ExchangeSvcFacade.
func (s *exchangeService) ExecuteTrade(ctx context.Context, listingID, buyerID string) (*domain.TradeReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if listingID == "" {
		return nil, fmt.Errorf("%w: listing ID must not be empty", apperrors.ErrValidation)
	}
	if buyerID == "" {
		return nil, fmt.Errorf("%w: buyer ID must not be empty", apperrors.ErrValidation)
	}

	var lastErr error
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		receipt, err := s.engine.attempt(ctx, listingID, buyerID)
		if err == nil {
			if attempt > 1 {
				logger.Info("Trade committed after retry",
					slog.String("listing_id", listingID),
					slog.Int("attempts", attempt),
				)
			}
			s.invalidateFeed(ctx, receipt)
			return receipt, nil
		}
		if !apperrors.IsRetryable(err) {
			return nil, err
		}

		lastErr = err
		logger.Warn("Trade attempt hit transient store failure",
			slog.String("listing_id", listingID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)

		if attempt == s.policy.MaxAttempts {
			break
		}
		if err := s.sleep(ctx, s.backoffDelay(attempt)); err != nil {
			return nil, err
		}
	}

	if errors.Is(lastErr, apperrors.ErrConflict) {
		return nil, fmt.Errorf("listing %s after %d attempts: %w", listingID, s.policy.MaxAttempts, apperrors.ErrTradeContention)
	}
	return nil, lastErr
}

// backoffDelay returns an exponentially growing delay with full jitter,
// capped at the policy maximum.
func (s *exchangeService) backoffDelay(attempt int) time.Duration {
	delay := s.policy.BaseDelay << (attempt - 1)
	if delay <= 0 || delay > s.policy.MaxDelay {
		delay = s.policy.MaxDelay
	}
	return time.Duration(rand.Int63n(int64(delay) + 1))
}

func (s *exchangeService) invalidateFeed(ctx context.Context, receipt *domain.TradeReceipt) {
	if s.feedCache == nil {
		return
	}
	listingType := domain.Sell
	if receipt.ListingStatus == domain.ListingFulfilled {
		listingType = domain.Wanted
	}
	if err := s.feedCache.InvalidateFeed(ctx, listingType); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to invalidate feed cache after trade",
			slog.String("listing_id", receipt.ListingID),
			slog.String("error", err.Error()),
		)
	}
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
