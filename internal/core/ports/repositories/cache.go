package repositories

import (
	"context"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
)

// FeedCache caches rendered feed pages. A cache failure is never fatal;
// callers fall back to the repository read.
type FeedCache interface {
	// GetFeed returns the cached first page for a listing type, or
	// apperrors.ErrNotFound on a miss. The page carries the continuation
	// token reported by the repository when it was cached.
	GetFeed(ctx context.Context, listingType domain.ListingType) (*domain.FeedPage, error)

	// SetFeed stores the first page for a listing type.
	SetFeed(ctx context.Context, listingType domain.ListingType, page domain.FeedPage) error

	// InvalidateFeed drops the cached page for a listing type.
	InvalidateFeed(ctx context.Context, listingType domain.ListingType) error
}
