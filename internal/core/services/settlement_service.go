package services

import (
	"context"
	"time"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
)

type settlementService struct {
	balances portssvc.BalanceSvc
}

// NewSettlementService creates the settlement optimizer. Suggestions are advisory only.
func NewSettlementService(balances portssvc.BalanceSvc) portssvc.SettlementSvc {
	return &settlementService{balances: balances}
}

var _ portssvc.SettlementSvc = (*settlementService)(nil)

func (s *settlementService) SuggestSettlements(ctx context.Context, groupID string, asOf time.Time) (*domain.BalanceSnapshot, []domain.SuggestedTransfer, error) {
	snapshot, err := s.balances.ComputeBalances(ctx, groupID, asOf)
	if err != nil {
		return nil, nil, err
	}
	return snapshot, domain.SuggestSettlements(*snapshot), nil
}
