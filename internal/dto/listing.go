package dto

import (
	"time"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
)

// CreateListingRequest defines the data needed to post a new listing.
// Seller identity comes from the authenticated caller, never the body.
type CreateListingRequest struct {
	Type        domain.ListingType `json:"type" binding:"required,oneof=SELL WANTED"`
	Title       string             `json:"title" binding:"required,max=120"`
	Description string             `json:"description" binding:"max=2000"`
	Price       int64              `json:"price" binding:"min=0"`
	Images      []string           `json:"images" binding:"omitempty,dive,url"`
	Tags        []string           `json:"tags" binding:"omitempty,dive,max=40"`
}

// ListFeedParams defines query parameters for browsing the feed.
type ListFeedParams struct {
	Type      domain.ListingType `form:"type,default=SELL" binding:"omitempty,oneof=SELL WANTED"`
	Limit     int                `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string            `form:"nextToken"`
}

// ListingResponse is the caller-facing shape of a listing.
type ListingResponse struct {
	ListingID    string               `json:"listingID"`
	Type         domain.ListingType   `json:"type"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Price        int64                `json:"price"`
	Images       []string             `json:"images"`
	SellerID     string               `json:"sellerID"`
	SellerName   string               `json:"sellerName"`
	SellerAvatar string               `json:"sellerAvatar"`
	BuyerID      string               `json:"buyerID,omitempty"`
	Status       domain.ListingStatus `json:"status"`
	Tags         []string             `json:"tags"`
	CreatedAt    string               `json:"createdAt"`
}

// ListFeedResponse wraps one page of the feed.
type ListFeedResponse struct {
	Listings  []ListingResponse `json:"listings"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListingResponse converts a domain.Listing to its response DTO.
func ToListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ListingID:    l.ListingID,
		Type:         l.Type,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		Images:       l.Images,
		SellerID:     l.SellerID,
		SellerName:   l.SellerName,
		SellerAvatar: l.SellerAvatar,
		BuyerID:      l.BuyerID,
		Status:       l.Status,
		Tags:         l.Tags,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339Nano),
	}
}

// ToListFeedResponse converts a page of domain listings to the feed DTO.
func ToListFeedResponse(listings []domain.Listing, nextToken *string) ListFeedResponse {
	responses := make([]ListingResponse, len(listings))
	for i := range listings {
		responses[i] = ToListingResponse(&listings[i])
	}
	return ListFeedResponse{Listings: responses, NextToken: nextToken}
}
