package services

import (
	"context"
	"time"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/SscSPs/group_ledger/internal/dto"
)

// QueryFacadeSvc is the entry point used by the chat assistant: structured
// extractions in, rendered read models out.
type QueryFacadeSvc interface {
	// RecordExtractedExpense resolves "everyone" and mention lists, then records the expense.
	RecordExtractedExpense(ctx context.Context, groupID string, req dto.RecordExtractedExpenseRequest, callerID string) (*domain.ExpenseEvent, error)

	GetBalances(ctx context.Context, groupID string, asOf time.Time) (*dto.BalancesResponse, error)
	GetSettlementSuggestions(ctx context.Context, groupID string, asOf time.Time) (*dto.SettlementSuggestionsResponse, error)
	GetHistory(ctx context.Context, groupID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ExecuteQuery dispatches a classified query to the matching read.
	ExecuteQuery(ctx context.Context, groupID string, q dto.StructuredQueryRequest) (*dto.StructuredQueryResponse, error)
}
