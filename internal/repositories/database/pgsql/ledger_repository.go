package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
	"github.com/nakamart/nakamart_backend/internal/models"
	"github.com/nakamart/nakamart_backend/internal/utils/mapping"
	"github.com/nakamart/nakamart_backend/internal/utils/pagination"
)

// PgxLedgerRepository reads the append-only ledger. There are no update or
// delete statements in this file on purpose.
type PgxLedgerRepository struct {
	BaseRepository
}

// NewLedgerRepository creates a new read-only repository for ledger entries.
func NewLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerReader {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

// ListEntriesByAccount retrieves a page of ledger entries where the account
// is either side of the transfer, newest first.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	query := `
		SELECT entry_id, from_account_id, to_account_id, amount, kind, listing_id, created_at
		FROM ledger_entries
		WHERE (from_account_id = $1 OR to_account_id = $1)
	`
	args := []interface{}{accountID}

	if nextToken != nil {
		afterTime, afterID, err := decodeKeysetToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, afterTime, afterID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, entry_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapStoreErr(err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, limit)
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.FromAccountID,
			&m.ToAccountID,
			&m.Amount,
			&m.Kind,
			&m.ListingID,
			&m.CreatedAt,
		); err != nil {
			return nil, nil, mapStoreErr(err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapStoreErr(err)
	}

	var newToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.EntryID)
		newToken = &token
	}
	return entries, newToken, nil
}
