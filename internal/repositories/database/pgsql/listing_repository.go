package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
	"github.com/nakamart/nakamart_backend/internal/models"
	"github.com/nakamart/nakamart_backend/internal/utils/mapping"
	"github.com/nakamart/nakamart_backend/internal/utils/pagination"
)

type PgxListingRepository struct {
	BaseRepository
}

// NewListingRepository creates a new repository for listing data.
func NewListingRepository(pool *pgxpool.Pool) portsrepo.ListingRepositoryFacade {
	return &PgxListingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ListingRepositoryFacade = (*PgxListingRepository)(nil)

// SaveListing inserts a new listing.
func (r *PgxListingRepository) SaveListing(ctx context.Context, listing domain.Listing) error {
	m := mapping.ToModelListing(listing)
	query := `
		INSERT INTO listings (listing_id, type, title, description, price, images, seller_id, seller_name, seller_avatar, buyer_id, status, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ListingID,
		m.Type,
		m.Title,
		m.Description,
		m.Price,
		m.Images,
		m.SellerID,
		m.SellerName,
		m.SellerAvatar,
		m.BuyerID,
		m.Status,
		m.Tags,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save listing %s: %w", listing.ListingID, mapStoreErr(err))
	}
	return nil
}

// FindListingByID retrieves a listing by its ID.
func (r *PgxListingRepository) FindListingByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	query := `
		SELECT listing_id, type, title, description, price, images, seller_id, seller_name, seller_avatar, buyer_id, status, tags, created_at
		FROM listings
		WHERE listing_id = $1;
	`
	var m models.Listing
	err := r.Pool.QueryRow(ctx, query, listingID).Scan(
		&m.ListingID,
		&m.Type,
		&m.Title,
		&m.Description,
		&m.Price,
		&m.Images,
		&m.SellerID,
		&m.SellerName,
		&m.SellerAvatar,
		&m.BuyerID,
		&m.Status,
		&m.Tags,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("listing %s: %w", listingID, apperrors.ErrNotFound)
		}
		return nil, mapStoreErr(err)
	}
	l := mapping.ToDomainListing(m)
	return &l, nil
}

// ListActiveListings retrieves a page of ACTIVE listings of the given type,
// newest first, using (created_at, listing_id) keyset pagination.
func (r *PgxListingRepository) ListActiveListings(ctx context.Context, listingType domain.ListingType, limit int, nextToken *string) ([]domain.Listing, *string, error) {
	query := `
		SELECT listing_id, type, title, description, price, images, seller_id, seller_name, seller_avatar, buyer_id, status, tags, created_at
		FROM listings
		WHERE status = 'ACTIVE' AND type = $1
	`
	args := []interface{}{string(listingType)}

	if nextToken != nil {
		afterTime, afterID, err := decodeKeysetToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, listing_id) < ($2, $3)`
		args = append(args, afterTime, afterID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, listing_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1) // one extra row decides whether a next page exists

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapStoreErr(err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0, limit)
	for rows.Next() {
		var m models.Listing
		if err := rows.Scan(
			&m.ListingID,
			&m.Type,
			&m.Title,
			&m.Description,
			&m.Price,
			&m.Images,
			&m.SellerID,
			&m.SellerName,
			&m.SellerAvatar,
			&m.BuyerID,
			&m.Status,
			&m.Tags,
			&m.CreatedAt,
		); err != nil {
			return nil, nil, mapStoreErr(err)
		}
		listings = append(listings, mapping.ToDomainListing(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapStoreErr(err)
	}

	var newToken *string
	if len(listings) > limit {
		listings = listings[:limit]
		last := listings[len(listings)-1]
		token := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.ListingID)
		newToken = &token
	}
	return listings, newToken, nil
}

func decodeKeysetToken(token string) (time.Time, string, error) {
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
