package mapping

import (
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	"github.com/nakamart/nakamart_backend/internal/models"
)

// ToModelListing converts a domain Listing to a model Listing
func ToModelListing(d domain.Listing) models.Listing {
	var buyerID *string
	if d.BuyerID != "" {
		buyerID = &d.BuyerID
	}
	return models.Listing{
		ListingID:    d.ListingID,
		Type:         models.ListingType(d.Type),
		Title:        d.Title,
		Description:  d.Description,
		Price:        d.Price,
		Images:       d.Images,
		SellerID:     d.SellerID,
		SellerName:   d.SellerName,
		SellerAvatar: d.SellerAvatar,
		BuyerID:      buyerID,
		Status:       models.ListingStatus(d.Status),
		Tags:         d.Tags,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainListing converts a model Listing to a domain Listing
func ToDomainListing(m models.Listing) domain.Listing {
	var buyerID string
	if m.BuyerID != nil {
		buyerID = *m.BuyerID
	}
	return domain.Listing{
		ListingID:    m.ListingID,
		Type:         domain.ListingType(m.Type),
		Title:        m.Title,
		Description:  m.Description,
		Price:        m.Price,
		Images:       m.Images,
		SellerID:     m.SellerID,
		SellerName:   m.SellerName,
		SellerAvatar: m.SellerAvatar,
		BuyerID:      buyerID,
		Status:       domain.ListingStatus(m.Status),
		Tags:         m.Tags,
		CreatedAt:    m.CreatedAt,
	}
}
