package services

import (
	"context"

	"github.com/nakamart/nakamart_backend/internal/core/domain"
	"github.com/nakamart/nakamart_backend/internal/dto"
)

// AccountReaderSvc defines read operations for accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account by ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for accounts.
type AccountWriterSvc interface {
	// RegisterAccount creates a new account with its seeded wallet.
	RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error)

	// UpdateProfile updates an account's own profile fields.
	UpdateProfile(ctx context.Context, accountID string, req dto.UpdateProfileRequest, requestingAccountID string) (*domain.Account, error)
}

// AccountAuthSvc defines operations for account authentication.
type AccountAuthSvc interface {
	// AuthenticateAccount verifies email and password and returns the account.
	AuthenticateAccount(ctx context.Context, email, password string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountAuthSvc
}
