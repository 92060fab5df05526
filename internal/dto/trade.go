package dto

import (
	"time"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
)

// TradeReceiptResponse confirms a committed trade.
type TradeReceiptResponse struct {
	ListingID     string               `json:"listingID"`
	ListingStatus domain.ListingStatus `json:"listingStatus"`
	BuyerID       string               `json:"buyerID"`
	SellerID      string               `json:"sellerID"`
	Price         int64                `json:"price"`
	LedgerEntryID string               `json:"ledgerEntryID"`
	ExecutedAt    string               `json:"executedAt"`
}

// ToTradeReceiptResponse converts a domain.TradeReceipt to its response DTO.
func ToTradeReceiptResponse(r *domain.TradeReceipt) TradeReceiptResponse {
	return TradeReceiptResponse{
		ListingID:     r.ListingID,
		ListingStatus: r.ListingStatus,
		BuyerID:       r.BuyerID,
		SellerID:      r.SellerID,
		Price:         r.Price,
		LedgerEntryID: r.LedgerEntryID,
		ExecutedAt:    r.ExecutedAt.Format(time.RFC3339Nano),
	}
}
