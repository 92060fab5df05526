package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/nakamart/nakamart_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider assembles all PostgreSQL-backed repositories over a
// single connection pool. The feed cache is attached separately by the caller
// since it is optional.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Store:       NewRecordStore(pool),
		ListingRepo: NewListingRepository(pool),
		AccountRepo: NewAccountRepository(pool),
		LedgerRepo:  NewLedgerRepository(pool),
	}
}
