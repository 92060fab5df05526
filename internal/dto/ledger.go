package dto

import (
	"time"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
)

// ListLedgerParams defines query parameters for listing ledger entries.
type ListLedgerParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// LedgerEntryResponse is the caller-facing shape of a ledger entry.
type LedgerEntryResponse struct {
	EntryID       string           `json:"entryID"`
	FromAccountID string           `json:"fromAccountID"`
	ToAccountID   string           `json:"toAccountID"`
	Amount        int64            `json:"amount"`
	Kind          domain.EntryKind `json:"kind"`
	ListingID     string           `json:"listingID"`
	CreatedAt     string           `json:"createdAt"`
}

// ListLedgerResponse wraps one page of ledger entries.
type ListLedgerResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToListLedgerResponse converts a page of domain entries to the list DTO.
func ToListLedgerResponse(entries []domain.LedgerEntry, nextToken *string) ListLedgerResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = LedgerEntryResponse{
			EntryID:       e.EntryID,
			FromAccountID: e.FromAccountID,
			ToAccountID:   e.ToAccountID,
			Amount:        e.Amount,
			Kind:          e.Kind,
			ListingID:     e.ListingID,
			CreatedAt:     e.CreatedAt.Format(time.RFC3339Nano),
		}
	}
	return ListLedgerResponse{Entries: responses, NextToken: nextToken}
}
