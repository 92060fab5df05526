package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
	"github.com/nakamart/nakamart_backend/internal/models"
	"github.com/nakamart/nakamart_backend/internal/utils/mapping"
)

// PgxRecordStore implements the transactional record store over PostgreSQL.
//
// Transactions run at SERIALIZABLE isolation, so the database's own read-set
// tracking provides the conflict detection the contract requires: when two
// trades race on the same listing, one commits and the other fails its
// serialization check, surfaced as apperrors.ErrConflict.
type PgxRecordStore struct {
	BaseRepository
}

// NewRecordStore creates a record store over the given pool.
func NewRecordStore(pool *pgxpool.Pool) portsrepo.RecordStore {
	return &PgxRecordStore{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecordStore = (*PgxRecordStore)(nil)

// Begin opens a SERIALIZABLE transaction.
func (s *PgxRecordStore) Begin(ctx context.Context) (portsrepo.StoreTx, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return &recordStoreTx{tx: tx}, nil
}

type recordStoreTx struct {
	tx pgx.Tx
}

func (t *recordStoreTx) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	query := `
		SELECT listing_id, type, title, description, price, images, seller_id, seller_name, seller_avatar, buyer_id, status, tags, created_at
		FROM listings
		WHERE listing_id = $1;
	`
	var m models.Listing
	err := t.tx.QueryRow(ctx, query, listingID).Scan(
		&m.ListingID,
		&m.Type,
		&m.Title,
		&m.Description,
		&m.Price,
		&m.Images,
		&m.SellerID,
		&m.SellerName,
		&m.SellerAvatar,
		&m.BuyerID,
		&m.Status,
		&m.Tags,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("listing %s: %w", listingID, apperrors.ErrNotFound)
		}
		return nil, mapStoreErr(err)
	}
	if m.Price < 0 {
		return nil, fmt.Errorf("listing %s has negative price %d: %w", listingID, m.Price, apperrors.ErrStoreContract)
	}
	l := mapping.ToDomainListing(m)
	return &l, nil
}

func (t *recordStoreTx) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, display_name, bio, avatar_url, balance, net_worth, reputation, wins, created_at, last_updated_at
		FROM accounts
		WHERE account_id = $1;
	`
	var m models.Account
	err := t.tx.QueryRow(ctx, query, accountID).Scan(
		&m.AccountID,
		&m.DisplayName,
		&m.Bio,
		&m.AvatarURL,
		&m.Balance,
		&m.NetWorth,
		&m.Reputation,
		&m.Wins,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		return nil, mapStoreErr(err)
	}
	if m.Balance < 0 {
		return nil, fmt.Errorf("account %s has negative balance %d: %w", accountID, m.Balance, apperrors.ErrStoreContract)
	}
	a := mapping.ToDomainAccount(m)
	return &a, nil
}

func (t *recordStoreTx) PutListing(ctx context.Context, listing domain.Listing) error {
	m := mapping.ToModelListing(listing)
	query := `
		UPDATE listings
		SET type = $2, title = $3, description = $4, price = $5, images = $6, seller_name = $7, seller_avatar = $8, buyer_id = $9, status = $10, tags = $11
		WHERE listing_id = $1;
	`
	tag, err := t.tx.Exec(ctx, query,
		m.ListingID,
		m.Type,
		m.Title,
		m.Description,
		m.Price,
		m.Images,
		m.SellerName,
		m.SellerAvatar,
		m.BuyerID,
		m.Status,
		m.Tags,
	)
	if err != nil {
		return mapStoreErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing %s: %w", listing.ListingID, apperrors.ErrNotFound)
	}
	return nil
}

func (t *recordStoreTx) PutAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET display_name = $2, bio = $3, avatar_url = $4, balance = $5, net_worth = $6, reputation = $7, wins = $8, last_updated_at = $9
		WHERE account_id = $1;
	`
	tag, err := t.tx.Exec(ctx, query,
		account.AccountID,
		account.DisplayName,
		account.Bio,
		account.AvatarURL,
		account.Balance,
		account.NetWorth,
		account.Reputation,
		account.Wins,
		account.LastUpdatedAt,
	)
	if err != nil {
		return mapStoreErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
	}
	return nil
}

func (t *recordStoreTx) AppendLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (entry_id, from_account_id, to_account_id, amount, kind, listing_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := t.tx.Exec(ctx, query,
		m.EntryID,
		m.FromAccountID,
		m.ToAccountID,
		m.Amount,
		m.Kind,
		m.ListingID,
		m.CreatedAt,
	)
	if err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (t *recordStoreTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (t *recordStoreTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return mapStoreErr(err)
	}
	return nil
}
