package models

import "time"

// ListingType distinguishes shop items from bounties.
type ListingType string

// ListingStatus indicates where a listing is in its lifecycle.
type ListingStatus string

// Listing represents a marketplace listing row.
// Note: BuyerID uses a pointer for the nullable column; it is set exactly
// once, by the trade that consumes the listing.
type Listing struct {
	ListingID    string        `db:"listing_id"`
	Type         ListingType   `db:"type"`
	Title        string        `db:"title"`
	Description  string        `db:"description"`
	Price        int64         `db:"price"`
	Images       []string      `db:"images"`
	SellerID     string        `db:"seller_id"`
	SellerName   string        `db:"seller_name"`
	SellerAvatar string        `db:"seller_avatar"`
	BuyerID      *string       `db:"buyer_id"`
	Status       ListingStatus `db:"status"`
	Tags         []string      `db:"tags"`
	CreatedAt    time.Time     `db:"created_at"`
}
