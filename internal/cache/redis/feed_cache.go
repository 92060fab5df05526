package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
)

const feedTTL = 30 * time.Second

// FeedCache implements the feed cache port over Redis with JSON-serialized
// listing pages.
//
// Key schema:
//
//	feed:{type} - string value of the JSON-encoded first feed page and its
//	continuation token
type FeedCache struct {
	rdb *redis.Client
}

// NewFeedCache creates a FeedCache backed by the given Client.
func NewFeedCache(c *Client) *FeedCache {
	return &FeedCache{rdb: c.rdb}
}

var _ portsrepo.FeedCache = (*FeedCache)(nil)

func feedKey(t domain.ListingType) string { return "feed:" + string(t) }

// GetFeed returns the cached first page for a listing type.
// It returns apperrors.ErrNotFound on a miss.
func (fc *FeedCache) GetFeed(ctx context.Context, listingType domain.ListingType) (*domain.FeedPage, error) {
	data, err := fc.rdb.Get(ctx, feedKey(listingType)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get feed %s: %w", listingType, err)
	}

	var page domain.FeedPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("redis: unmarshal feed %s: %w", listingType, err)
	}
	return &page, nil
}

// SetFeed stores the first page for a listing type with a short TTL.
func (fc *FeedCache) SetFeed(ctx context.Context, listingType domain.ListingType, page domain.FeedPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("redis: marshal feed %s: %w", listingType, err)
	}
	if err := fc.rdb.Set(ctx, feedKey(listingType), data, feedTTL).Err(); err != nil {
		return fmt.Errorf("redis: set feed %s: %w", listingType, err)
	}
	return nil
}

// InvalidateFeed drops the cached page for a listing type.
func (fc *FeedCache) InvalidateFeed(ctx context.Context, listingType domain.ListingType) error {
	if err := fc.rdb.Del(ctx, feedKey(listingType)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate feed %s: %w", listingType, err)
	}
	return nil
}
