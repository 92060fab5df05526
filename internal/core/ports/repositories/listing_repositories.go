package repositories

import (
	"context"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
)

// ListingReader defines read operations for listing data outside the
// exchange transaction (feed and detail views).
type ListingReader interface {
	// FindListingByID retrieves a specific listing by its unique identifier.
	FindListingByID(ctx context.Context, listingID string) (*domain.Listing, error)

	// ListActiveListings retrieves a page of ACTIVE listings of the given type,
	// newest first. nextToken of nil means the first page.
	ListActiveListings(ctx context.Context, listingType domain.ListingType, limit int, nextToken *string) ([]domain.Listing, *string, error)
}

// ListingWriter defines write operations for listings outside the exchange
// transaction. Status transitions away from ACTIVE belong to the exchange
// engine alone and are not expressible here.
type ListingWriter interface {
	// SaveListing persists a new listing.
	SaveListing(ctx context.Context, listing domain.Listing) error
}

// ListingRepositoryFacade combines all listing repository interfaces.
type ListingRepositoryFacade interface {
	ListingReader
	ListingWriter
}
