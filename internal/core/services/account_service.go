package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nakamart/nakamart_backend/internal/apperrors"
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
	portssvc "github.com/nakamart/nakamart_backend/internal/core/ports/services"
	"github.com/nakamart/nakamart_backend/internal/dto"
	"github.com/nakamart/nakamart_backend/internal/middleware"
	"github.com/nakamart/nakamart_backend/internal/utils"
)

// Every new wallet is seeded with starting OTC so fresh accounts can trade.
const (
	startingBalance  int64 = 100
	startingNetWorth int64 = 100
	defaultBio             = "New to the crew."
	defaultAvatarURL       = "https://i.pravatar.cc/150?img=12"
)

// accountService provides account registration, profiles and authentication.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// RegisterAccount creates a new account with its seeded wallet.
func (s *accountService) RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		DisplayName: req.DisplayName,
		Bio:         defaultBio,
		AvatarURL:   defaultAvatarURL,
		Balance:     startingBalance,
		NetWorth:    startingNetWorth,
		Reputation:  0,
		Wins:        0,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account, req.Email, passwordHash); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account registered", slog.String("account_id", account.AccountID))
	return &account, nil
}

// GetAccountByID retrieves an account by ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account ID must not be empty", apperrors.ErrValidation)
	}
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// UpdateProfile updates an account's own profile fields.
func (s *accountService) UpdateProfile(ctx context.Context, accountID string, req dto.UpdateProfileRequest, requestingAccountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if accountID != requestingAccountID {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		account.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		account.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		account.AvatarURL = *req.AvatarURL
	}
	account.LastUpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateProfile(ctx, *account); err != nil {
		logger.Error("Failed to update profile", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, err
	}

	return account, nil
}

// AuthenticateAccount verifies email and password and returns the account.
func (s *accountService) AuthenticateAccount(ctx context.Context, email, password string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountID, passwordHash, err := s.accountRepo.FindCredentialsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(password, passwordHash) {
		logger.Warn("Password mismatch on login", slog.String("account_id", accountID))
		return nil, apperrors.ErrNotFound
	}

	return s.accountRepo.FindAccountByID(ctx, accountID)
}
