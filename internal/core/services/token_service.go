package services

import (
	portssvc "github.com/nakamart/nakamart_backend/internal/core/ports/services"
	"github.com/nakamart/nakamart_backend/internal/platform/config"
	"github.com/nakamart/nakamart_backend/internal/utils"
)

// tokenService issues signed access tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new TokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken issues a signed JWT for the account.
func (s *tokenService) GenerateAccessToken(accountID string) (string, error) {
	return utils.GenerateJWT(accountID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
}
