package badgerdb

import (
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	"github.com/dgraph-io/badger/v4"
)

func NewRepositoryProvider(db *badger.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ParticipantRepo: newBadgerParticipantRepository(db),
		LedgerRepo:      newBadgerLedgerRepository(db),
	}
}
