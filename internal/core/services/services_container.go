package services

import (
	"github.com/SscSPs/group_ledger/internal/audit"
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
	"github.com/SscSPs/group_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, auditor audit.Publisher) *portssvc.ServiceContainer {
	if auditor == nil {
		auditor = audit.NopPublisher{}
	}
	container := &portssvc.ServiceContainer{}

	container.Participant = NewParticipantService(repos.ParticipantRepo, auditor)
	container.Ledger = NewLedgerService(
		repos.LedgerRepo,
		repos.ParticipantRepo,
		WithAuditPublisher(auditor),
		WithDefaultCurrency(cfg.DefaultCurrency),
		WithMaxExpenseAmount(cfg.MaxExpenseAmount),
		WithWriteRetries(cfg.LedgerWriteRetries),
	)
	container.Balance = NewBalanceService(container.Ledger, repos.ParticipantRepo, cfg.DefaultCurrency)
	container.Settlement = NewSettlementService(container.Balance)
	container.Query = NewQueryFacade(container.Participant, container.Ledger, container.Balance, container.Settlement)

	return container
}
