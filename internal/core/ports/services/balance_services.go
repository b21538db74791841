package services

import (
	"context"
	"time"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/SscSPs/group_ledger/internal/dto"
)

// BalanceSvc derives balances from the ledger.
type BalanceSvc interface {
	// ComputeBalances folds the history up to asOf (zero means now).
	// It returns apperrors.ErrLedgerCorrupted if the stored entries violate the sum invariants.
	ComputeBalances(ctx context.Context, groupID string, asOf time.Time) (*domain.BalanceSnapshot, error)

	// Summary aggregates totals over the whole ledger.
	Summary(ctx context.Context, groupID string) (*dto.SummaryResponse, error)
}

// SettlementSvc suggests payments. It never writes to the ledger.
type SettlementSvc interface {
	SuggestSettlements(ctx context.Context, groupID string, asOf time.Time) (*domain.BalanceSnapshot, []domain.SuggestedTransfer, error)
}
