package mapping

import (
	"github.com/nakamart/nakamart_backend/internal/core/domain"
	"github.com/nakamart/nakamart_backend/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account.
// Credentials stay behind in the model: the domain account is safe to hand
// to callers.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		DisplayName: m.DisplayName,
		Bio:         m.Bio,
		AvatarURL:   m.AvatarURL,
		Balance:     m.Balance,
		NetWorth:    m.NetWorth,
		Reputation:  m.Reputation,
		Wins:        m.Wins,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}
