package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
	"github.com/SscSPs/group_ledger/internal/dto"
)

type balanceService struct {
	BaseService
	ledger          portssvc.LedgerReaderSvc
	participantRepo portsrepo.ParticipantReader
	defaultCurrency string
}

// NewBalanceService creates the balance calculator. It only reads the ledger.
func NewBalanceService(ledger portssvc.LedgerReaderSvc, participantRepo portsrepo.ParticipantReader, defaultCurrency string) portssvc.BalanceSvc {
	return &balanceService{
		ledger:          ledger,
		participantRepo: participantRepo,
		defaultCurrency: domain.NormalizeCurrencyCode(defaultCurrency),
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func (s *balanceService) ComputeBalances(ctx context.Context, groupID string, asOf time.Time) (*domain.BalanceSnapshot, error) {
	if asOf.IsZero() {
		asOf = s.Now()
	}
	asOf = asOf.UTC()

	fold := domain.NewBalanceFold()
	for entry, err := range s.ledger.History(ctx, groupID, time.Time{}, asOf) {
		if err != nil {
			s.LogError(ctx, err, "Failed to read ledger history", slog.String("group_id", groupID))
			return nil, err
		}
		if err := fold.Apply(entry); err != nil {
			s.logCorruption(ctx, groupID, err)
			return nil, err
		}
	}

	snapshot, err := fold.Snapshot(groupID, asOf)
	if err != nil {
		s.logCorruption(ctx, groupID, err)
		return nil, err
	}
	if snapshot.CurrencyCode == "" {
		snapshot.CurrencyCode = s.defaultCurrency
	}
	return snapshot, nil
}

func (s *balanceService) logCorruption(ctx context.Context, groupID string, err error) {
	if errors.Is(err, apperrors.ErrLedgerCorrupted) {
		s.LogError(ctx, err, "LEDGER CORRUPTED: refusing to compute balances", slog.String("group_id", groupID))
	}
}

func (s *balanceService) Summary(ctx context.Context, groupID string) (*dto.SummaryResponse, error) {
	summary := &dto.SummaryResponse{
		GroupID:          groupID,
		CurrencyCode:     s.defaultCurrency,
		TotalExpenses:    decimal.Zero,
		TotalSettlements: decimal.Zero,
	}

	applied := make(map[int64]domain.LedgerEntry)
	for entry, err := range s.ledger.History(ctx, groupID, time.Time{}, time.Time{}) {
		if err != nil {
			s.LogError(ctx, err, "Failed to read ledger history", slog.String("group_id", groupID))
			return nil, err
		}
		h := entry.Header()
		summary.EntryCount++
		summary.HeadSequence = max(summary.HeadSequence, h.Sequence)
		if code := entry.CurrencyCode(); code != "" {
			summary.CurrencyCode = code
		}

		switch entry.Kind {
		case domain.EntryExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(entry.Expense.TotalAmount)
			applied[h.Sequence] = entry
		case domain.EntrySettlement:
			summary.TotalSettlements = summary.TotalSettlements.Add(entry.Settlement.Amount)
			applied[h.Sequence] = entry
		case domain.EntryReversal:
			target, ok := applied[entry.Reversal.ReversedSequence]
			if !ok {
				continue
			}
			summary.ReversedCount++
			if target.Kind == domain.EntryExpense {
				summary.TotalExpenses = summary.TotalExpenses.Sub(target.Expense.TotalAmount)
			} else {
				summary.TotalSettlements = summary.TotalSettlements.Sub(target.Settlement.Amount)
			}
		}
	}

	participants, err := s.participantRepo.ListParticipants(ctx, groupID, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list participants", slog.String("group_id", groupID))
		return nil, err
	}
	summary.Participants = len(participants)
	return summary, nil
}
