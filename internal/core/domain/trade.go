package domain

import "time"

// TradeReceipt confirms a successful trade back to the caller.
// After a receipt is returned, no other trade can be recorded against the
// same listing: its status is a one-way gate.
type TradeReceipt struct {
	ListingID     string        `json:"listingID"`
	ListingStatus ListingStatus `json:"listingStatus"`
	BuyerID       string        `json:"buyerID"`
	SellerID      string        `json:"sellerID"`
	Price         int64         `json:"price"`
	LedgerEntryID string        `json:"ledgerEntryID"`
	ExecutedAt    time.Time     `json:"executedAt"`
}
