package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
	portssvc "github.com/nakamart/nakamart_backend/internal/core/ports/services"
	"github.com/nakamart/nakamart_backend/internal/dto"
	"github.com/nakamart/nakamart_backend/internal/middleware"
)

// listingService provides listing creation and browsing.
type listingService struct {
	listingRepo portsrepo.ListingRepositoryFacade
	accountSvc  portssvc.AccountReaderSvc
	feedCache   portsrepo.FeedCache
}

// ListingServiceOption configures the listing service.
type ListingServiceOption func(*listingService)

// WithFeedCache caches the first feed page per listing type.
func WithFeedCache(cache portsrepo.FeedCache) ListingServiceOption {
	return func(s *listingService) {
		s.feedCache = cache
	}
}

// NewListingService creates a new ListingService.
func NewListingService(listingRepo portsrepo.ListingRepositoryFacade, accountSvc portssvc.AccountReaderSvc, opts ...ListingServiceOption) portssvc.ListingSvcFacade {
	s := &listingService{
		listingRepo: listingRepo,
		accountSvc:  accountSvc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ListingSvcFacade = (*listingService)(nil)

// CreateListing creates a new ACTIVE listing owned by the seller.
// Seller name and avatar are copied onto the listing so feed reads do not
// join accounts.
func (s *listingService) CreateListing(ctx context.Context, req dto.CreateListingRequest, sellerID string) (*domain.Listing, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", apperrors.ErrValidation)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}

	seller, err := s.accountSvc.GetAccountByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	listing := domain.Listing{
		ListingID:    uuid.NewString(),
		Type:         req.Type,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Images:       req.Images,
		SellerID:     seller.AccountID,
		SellerName:   seller.DisplayName,
		SellerAvatar: seller.AvatarURL,
		Status:       domain.ListingActive,
		Tags:         req.Tags,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.listingRepo.SaveListing(ctx, listing); err != nil {
		logger.Error("Failed to save listing", slog.String("error", err.Error()))
		return nil, err
	}

	s.invalidateFeed(ctx, listing.Type)

	logger.Info("Listing created", slog.String("listing_id", listing.ListingID), slog.String("type", string(listing.Type)))
	return &listing, nil
}

// GetListingByID retrieves a listing by ID.
func (s *listingService) GetListingByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	if listingID == "" {
		return nil, fmt.Errorf("%w: listing ID must not be empty", apperrors.ErrValidation)
	}
	return s.listingRepo.FindListingByID(ctx, listingID)
}

// ListFeed retrieves a page of ACTIVE listings of one type, newest first.
// The first page is served from the feed cache when available; cache
// failures fall back to the repository.
func (s *listingService) ListFeed(ctx context.Context, listingType domain.ListingType, limit int, nextToken *string) ([]domain.Listing, *string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	firstPage := nextToken == nil
	if firstPage && s.feedCache != nil {
		if cached, err := s.feedCache.GetFeed(ctx, listingType); err == nil {
			// The cached token is only valid for the page it ends, so a
			// partial cached page can serve only when the feed is exhausted.
			if len(cached.Listings) == limit || (cached.NextToken == nil && len(cached.Listings) < limit) {
				return cached.Listings, cached.NextToken, nil
			}
		}
	}

	listings, newToken, err := s.listingRepo.ListActiveListings(ctx, listingType, limit, nextToken)
	if err != nil {
		return nil, nil, err
	}

	if firstPage && s.feedCache != nil {
		page := domain.FeedPage{Listings: listings, NextToken: newToken}
		if err := s.feedCache.SetFeed(ctx, listingType, page); err != nil {
			logger.Warn("Failed to populate feed cache", slog.String("error", err.Error()))
		}
	}

	return listings, newToken, nil
}

func (s *listingService) invalidateFeed(ctx context.Context, listingType domain.ListingType) {
	if s.feedCache == nil {
		return
	}
	if err := s.feedCache.InvalidateFeed(ctx, listingType); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to invalidate feed cache", slog.String("error", err.Error()))
	}
}
