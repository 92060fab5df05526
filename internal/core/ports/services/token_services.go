package services

// TokenSvcFacade issues authentication tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed JWT for the account.
	GenerateAccessToken(accountID string) (string, error)
}
