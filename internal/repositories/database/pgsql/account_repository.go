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

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account with its credentials.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account, email, passwordHash string) error {
	query := `
		INSERT INTO accounts (account_id, email, password_hash, display_name, bio, avatar_url, balance, net_worth, reputation, wins, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		email,
		passwordHash,
		account.DisplayName,
		account.Bio,
		account.AvatarURL,
		account.Balance,
		account.NetWorth,
		account.Reputation,
		account.Wins,
		account.CreatedAt,
		account.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, mapStoreErr(err))
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, display_name, bio, avatar_url, balance, net_worth, reputation, wins, created_at, last_updated_at
		FROM accounts
		WHERE account_id = $1;
	`
	var m models.Account
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(
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
	a := mapping.ToDomainAccount(m)
	return &a, nil
}

// UpdateProfile updates the mutable profile fields of an account.
// Wallet fields are deliberately untouched: balances change only inside the
// record store's trade transaction.
func (r *PgxAccountRepository) UpdateProfile(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET display_name = $2, bio = $3, avatar_url = $4, last_updated_at = $5
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.DisplayName,
		account.Bio,
		account.AvatarURL,
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

// FindCredentialsByEmail returns the account ID and password hash for an email.
func (r *PgxAccountRepository) FindCredentialsByEmail(ctx context.Context, email string) (string, string, error) {
	query := `
		SELECT account_id, password_hash
		FROM accounts
		WHERE email = $1;
	`
	var accountID, passwordHash string
	err := r.Pool.QueryRow(ctx, query, email).Scan(&accountID, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", fmt.Errorf("credentials for %s: %w", email, apperrors.ErrNotFound)
		}
		return "", "", mapStoreErr(err)
	}
	return accountID, passwordHash, nil
}
