package domain

import "time"

// EntryKind categorizes a ledger entry.
type EntryKind string

const (
	EntryTrade  EntryKind = "TRADE"
	EntryBoost  EntryKind = "BOOST"
	EntryReward EntryKind = "REWARD"
)

// LedgerEntry is an immutable audit record of one completed transfer.
// Entries are append-only: they are written in the same atomic commit as the
// balance and listing mutations they describe, and never updated or deleted.
type LedgerEntry struct {
	EntryID       string    `json:"entryID"`
	FromAccountID string    `json:"fromAccountID"` // buyer
	ToAccountID   string    `json:"toAccountID"`   // seller
	Amount        int64     `json:"amount"`        // listing price at time of sale
	Kind          EntryKind `json:"kind"`
	ListingID     string    `json:"listingID"`
	CreatedAt     time.Time `json:"createdAt"`
}
