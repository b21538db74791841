package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
	"github.com/SscSPs/group_ledger/internal/dto"
	"github.com/SscSPs/group_ledger/internal/utils"
)

// queryFacade is what the chat assistant talks to. It turns extractions into
// ledger commands and renders read models with participant labels.
type queryFacade struct {
	BaseService
	participants portssvc.ParticipantSvcFacade
	ledger       portssvc.LedgerSvcFacade
	balances     portssvc.BalanceSvc
	settlements  portssvc.SettlementSvc
}

// NewQueryFacade creates the query facade over the other services.
func NewQueryFacade(participants portssvc.ParticipantSvcFacade, ledger portssvc.LedgerSvcFacade, balances portssvc.BalanceSvc, settlements portssvc.SettlementSvc) portssvc.QueryFacadeSvc {
	return &queryFacade{
		participants: participants,
		ledger:       ledger,
		balances:     balances,
		settlements:  settlements,
	}
}

var _ portssvc.QueryFacadeSvc = (*queryFacade)(nil)

func (f *queryFacade) RecordExtractedExpense(ctx context.Context, groupID string, req dto.RecordExtractedExpenseRequest, callerID string) (*domain.ExpenseEvent, error) {
	var beneficiaries []string
	if req.Everyone {
		// Frozen into the event: later membership changes do not touch it.
		active, err := f.participants.List(ctx, groupID, false)
		if err != nil {
			return nil, err
		}
		beneficiaries = lo.Map(active, func(p domain.Participant, _ int) string { return p.ParticipantID })
		if len(beneficiaries) == 0 {
			return nil, fmt.Errorf("%w: group has no active participants", apperrors.ErrValidation)
		}
	} else {
		if len(req.Beneficiaries) == 0 {
			return nil, fmt.Errorf("%w: no beneficiaries mentioned", apperrors.ErrValidation)
		}
		beneficiaries = lo.Uniq(append(slices.Clone(req.Beneficiaries), req.PayerID))
	}

	f.LogDebug(ctx, "Recording extracted expense",
		slog.String("group_id", groupID),
		slog.Bool("everyone", req.Everyone),
		slog.Int("beneficiaries", len(beneficiaries)))

	return f.ledger.RecordExpense(ctx, groupID, dto.RecordExpenseRequest{
		PayerID:      req.PayerID,
		TotalAmount:  req.Amount,
		CurrencyCode: req.CurrencyCode,
		Split:        dto.SplitRequest{Mode: domain.SplitEqual, Beneficiaries: beneficiaries},
		Memo:         req.Memo,
		SourceRef:    req.SourceRef,
		OccurredAt:   req.OccurredAt,
	}, callerID)
}

func (f *queryFacade) GetBalances(ctx context.Context, groupID string, asOf time.Time) (*dto.BalancesResponse, error) {
	snapshot, err := f.balances.ComputeBalances(ctx, groupID, asOf)
	if err != nil {
		return nil, err
	}
	names, err := f.participants.LookupNames(ctx, groupID, snapshot.ParticipantIDs())
	if err != nil {
		return nil, err
	}
	resp := dto.ToBalancesResponse(snapshot, names, utils.FormatSignedAmount)
	return &resp, nil
}

func (f *queryFacade) GetSettlementSuggestions(ctx context.Context, groupID string, asOf time.Time) (*dto.SettlementSuggestionsResponse, error) {
	snapshot, transfers, err := f.settlements.SuggestSettlements(ctx, groupID, asOf)
	if err != nil {
		return nil, err
	}
	ids := lo.Uniq(lo.FlatMap(transfers, func(t domain.SuggestedTransfer, _ int) []string { return []string{t.From, t.To} }))
	names, err := f.participants.LookupNames(ctx, groupID, ids)
	if err != nil {
		return nil, err
	}
	resp := dto.ToSettlementSuggestionsResponse(snapshot, transfers, names)
	return &resp, nil
}

func (f *queryFacade) GetHistory(ctx context.Context, groupID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	entries, next, err := f.ledger.ListEntries(ctx, groupID, params)
	if err != nil {
		return nil, err
	}
	resp := dto.ToListEntriesResponse(entries, next)
	return &resp, nil
}

func (f *queryFacade) ExecuteQuery(ctx context.Context, groupID string, q dto.StructuredQueryRequest) (*dto.StructuredQueryResponse, error) {
	resp := &dto.StructuredQueryResponse{Kind: q.Kind}
	var err error
	switch q.Kind {
	case dto.QueryBalance:
		resp.Balances, err = f.GetBalances(ctx, groupID, q.Until)
	case dto.QuerySettlement:
		resp.Settlements, err = f.GetSettlementSuggestions(ctx, groupID, q.Until)
	case dto.QueryHistory:
		resp.History, err = f.GetHistory(ctx, groupID, dto.ListEntriesParams{Since: q.Since, Until: q.Until, Limit: q.Limit})
	case dto.QuerySummary:
		resp.Summary, err = f.balances.Summary(ctx, groupID)
	default:
		return nil, fmt.Errorf("%w: unsupported query kind %q", apperrors.ErrValidation, q.Kind)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
