package models

import "time"

// LedgerEntry represents one row of the append-only ledger.
// Rows are inserted in the same database transaction as the balance and
// listing mutations they describe and are never updated or deleted.
type LedgerEntry struct {
	EntryID       string    `db:"entry_id"`
	FromAccountID string    `db:"from_account_id"`
	ToAccountID   string    `db:"to_account_id"`
	Amount        int64     `db:"amount"`
	Kind          string    `db:"kind"`
	ListingID     string    `db:"listing_id"`
	CreatedAt     time.Time `db:"created_at"`
}
