package services

import (
	"context"
	"iter"
	"time"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/SscSPs/group_ledger/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger data
type LedgerReaderSvc interface {
	// History yields the entries with OccurredAt in [since, until] in ledger order.
	// Zero bounds are open. Each iteration sees the ledger as of its first read.
	History(ctx context.Context, groupID string, since, until time.Time) iter.Seq2[domain.LedgerEntry, error]

	// ListEntries returns one page of history and the token for the next page.
	ListEntries(ctx context.Context, groupID string, params dto.ListEntriesParams) ([]domain.LedgerEntry, *string, error)

	// GetGroup returns the ledger header or apperrors.ErrNotFound for an empty ledger.
	GetGroup(ctx context.Context, groupID string) (*domain.Group, error)
}

// LedgerWriterSvc defines write operations for ledger data
type LedgerWriterSvc interface {
	// RecordExpense validates, splits and appends an expense.
	RecordExpense(ctx context.Context, groupID string, req dto.RecordExpenseRequest, callerID string) (*domain.ExpenseEvent, error)

	// RecordSettlement appends a payment between two participants.
	RecordSettlement(ctx context.Context, groupID string, req dto.RecordSettlementRequest, callerID string) (*domain.SettlementEvent, error)

	// ReverseEntry appends a compensating entry for an earlier expense or settlement.
	ReverseEntry(ctx context.Context, groupID string, sequence int64, req dto.ReverseEntryRequest, callerID string) (*domain.ReversalEvent, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
