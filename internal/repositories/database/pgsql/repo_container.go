package pgsql

import (
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	participantRepo := newPgxParticipantRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ParticipantRepo: participantRepo,
		LedgerRepo:      ledgerRepo,
	}
}
