package domain

import "time"

// ListingType distinguishes shop items from bounties.
type ListingType string

const (
	Sell   ListingType = "SELL"
	Wanted ListingType = "WANTED"
)

// ListingStatus indicates where a listing is in its lifecycle.
// A listing moves from ACTIVE to exactly one terminal state and never back.
type ListingStatus string

const (
	ListingActive    ListingStatus = "ACTIVE"
	ListingSold      ListingStatus = "SOLD"
	ListingFulfilled ListingStatus = "FULFILLED"
	ListingArchived  ListingStatus = "ARCHIVED"
)

// Terminal reports whether the status is past the point of trading.
func (s ListingStatus) Terminal() bool {
	return s != ListingActive
}

// TradedStatus returns the terminal status a successful trade moves a listing
// of the given type into: SOLD for shop items, FULFILLED for bounties.
func (t ListingType) TradedStatus() ListingStatus {
	if t == Wanted {
		return ListingFulfilled
	}
	return ListingSold
}

// FeedPage is one page of the feed together with the token that continues
// it. NextToken is nil on the last page.
type FeedPage struct {
	Listings  []Listing `json:"listings"`
	NextToken *string   `json:"nextToken,omitempty"`
}

// Listing represents an item offered for sale or sought as a bounty.
// Seller name and avatar are denormalized onto the listing so the feed can
// render without joining accounts.
type Listing struct {
	ListingID    string        `json:"listingID"`
	Type         ListingType   `json:"type"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Price        int64         `json:"price"` // OTC units, never negative
	Images       []string      `json:"images"`
	SellerID     string        `json:"sellerID"`
	SellerName   string        `json:"sellerName"`
	SellerAvatar string        `json:"sellerAvatar"`
	BuyerID      string        `json:"buyerID,omitempty"` // set iff a trade occurred
	Status       ListingStatus `json:"status"`
	Tags         []string      `json:"tags"`
	CreatedAt    time.Time     `json:"createdAt"`
}
