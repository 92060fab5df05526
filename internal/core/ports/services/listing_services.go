package services

import (
	"context"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
	"github.com/nakamart/nakamart_backend/internal/dto"
)

// ListingReaderSvc defines read operations for listings.
type ListingReaderSvc interface {
	// GetListingByID retrieves a listing by ID.
	GetListingByID(ctx context.Context, listingID string) (*domain.Listing, error)

	// ListFeed retrieves a page of ACTIVE listings of one type, newest first.
	ListFeed(ctx context.Context, listingType domain.ListingType, limit int, nextToken *string) ([]domain.Listing, *string, error)
}

// ListingWriterSvc defines write operations for listings.
type ListingWriterSvc interface {
	// CreateListing creates a new ACTIVE listing owned by the seller.
	CreateListing(ctx context.Context, req dto.CreateListingRequest, sellerID string) (*domain.Listing, error)
}

// ListingSvcFacade combines all listing-related service interfaces.
type ListingSvcFacade interface {
	ListingReaderSvc
	ListingWriterSvc
}
