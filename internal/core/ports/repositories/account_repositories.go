package repositories

import (
	"context"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data outside the
// exchange transaction. Balance adjustments that settle a trade go through
// the RecordStore, never through this interface.
type AccountWriter interface {
	// SaveAccount persists a new account with its credentials.
	SaveAccount(ctx context.Context, account domain.Account, email, passwordHash string) error

	// UpdateProfile updates the mutable profile fields of an account.
	UpdateProfile(ctx context.Context, account domain.Account) error
}

// AccountAuthenticator resolves login credentials.
type AccountAuthenticator interface {
	// FindCredentialsByEmail returns the account ID and password hash for an email.
	FindCredentialsByEmail(ctx context.Context, email string) (accountID string, passwordHash string, err error)
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountAuthenticator
}
