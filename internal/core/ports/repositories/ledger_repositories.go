package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/group_ledger/internal/core/domain"
)

// EntryFilter bounds a ledger scan. Zero values mean unbounded.
type EntryFilter struct {
	Since       time.Time // Inclusive lower bound on OccurredAt
	Until       time.Time // Inclusive upper bound on OccurredAt
	MaxSequence int64     // Ignore entries appended after this sequence
}

// Matches reports whether an entry header falls inside the filter.
func (f EntryFilter) Matches(h domain.EventHeader) bool {
	if !f.Since.IsZero() && h.OccurredAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && h.OccurredAt.After(f.Until) {
		return false
	}
	if f.MaxSequence > 0 && h.Sequence > f.MaxSequence {
		return false
	}
	return true
}

// LedgerReader defines read operations for ledger data
type LedgerReader interface {
	// FindGroup returns the ledger header, or apperrors.ErrNotFound if nothing was recorded yet.
	FindGroup(ctx context.Context, groupID string) (*domain.Group, error)

	// FindEntry returns a single entry by sequence, or apperrors.ErrNotFound.
	FindEntry(ctx context.Context, groupID string, sequence int64) (*domain.LedgerEntry, error)

	// ListEntries returns a page of entries in ledger order (OccurredAt, then Sequence).
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, groupID string, filter EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriter defines write operations for ledger data
type LedgerWriter interface {
	// AppendEntry atomically assigns the next sequence number for the entry's group
	// and persists it. The first expense or settlement fixes the group currency.
	//
	// It returns apperrors.ErrCurrencyMismatch for a foreign currency, apperrors.ErrNotFound
	// or apperrors.ErrAlreadyReversed for an invalid reversal target, and
	// apperrors.ErrConcurrentModification when another writer appended first.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
