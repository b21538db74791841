package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryKind discriminates the variants of a LedgerEntry.
type EntryKind string

const (
	EntryExpense    EntryKind = "EXPENSE"
	EntrySettlement EntryKind = "SETTLEMENT"
	EntryReversal   EntryKind = "REVERSAL"
)

// EventHeader holds the fields shared by every ledger event.
type EventHeader struct {
	EventID    string    `json:"eventID"`    // UUID
	GroupID    string    `json:"groupID"`    // Owning group ledger
	Sequence   int64     `json:"sequence"`   // Monotonic per group, assigned on append
	OccurredAt time.Time `json:"occurredAt"` // When it happened in the real world
	RecordedAt time.Time `json:"recordedAt"` // When it was appended
	RecordedBy string    `json:"recordedBy"` // Caller that appended it
}

// Occurrence times outside [MinOccurredAt, MaxOccurredAt] cannot be stored or
// ordered by every backend.
var (
	MinOccurredAt = time.Unix(0, 0).UTC()
	MaxOccurredAt = time.Date(9999, 12, 31, 23, 59, 59, 999999000, time.UTC)
)

// CheckOccurredAt rejects times outside the storable range.
func CheckOccurredAt(t time.Time) error {
	if t.Before(MinOccurredAt) || t.After(MaxOccurredAt) {
		return fmt.Errorf("%w: occurredAt %s is outside %d-%d", apperrors.ErrValidation,
			t.UTC().Format(time.RFC3339), MinOccurredAt.Year(), MaxOccurredAt.Year())
	}
	return nil
}

// Share is the resolved portion of an expense attributed to one participant.
type Share struct {
	ParticipantID string          `json:"participantID"`
	Amount        decimal.Decimal `json:"amount"`
}

// ExpenseEvent records that PayerID paid TotalAmount on behalf of the beneficiaries in Shares.
type ExpenseEvent struct {
	EventHeader
	PayerID      string          `json:"payerID"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	CurrencyCode string          `json:"currencyCode"`
	SplitMode    SplitMode       `json:"splitMode"`
	Shares       []Share         `json:"shares"` // Sorted by participant ID
	Memo         string          `json:"memo"`
	SourceRef    string          `json:"sourceRef"` // Reference to the originating chat message
}

// Validate checks that the shares add up to the total exactly.
func (e ExpenseEvent) Validate() error {
	if !e.TotalAmount.IsPositive() {
		return fmt.Errorf("%w: expense total must be positive", apperrors.ErrInvalidAmount)
	}
	if len(e.Shares) == 0 {
		return fmt.Errorf("%w: expense has no shares", apperrors.ErrValidation)
	}
	sum := decimal.Zero
	for _, s := range e.Shares {
		sum = sum.Add(s.Amount)
	}
	if !sum.Equal(e.TotalAmount) {
		return fmt.Errorf("%w: shares sum to %s, total is %s", apperrors.ErrShareMismatch, sum, e.TotalAmount)
	}
	return nil
}

// SettlementEvent records a real-world payment from PayerID to PayeeID.
type SettlementEvent struct {
	EventHeader
	PayerID      string          `json:"payerID"`
	PayeeID      string          `json:"payeeID"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	Memo         string          `json:"memo"`
}

// ReversalEvent cancels the balance effect of an earlier entry.
type ReversalEvent struct {
	EventHeader
	ReversedSequence int64  `json:"reversedSequence"`
	Reason           string `json:"reason"`
}

// LedgerEntry is the sum type over ledger events. Exactly one of the pointers
// is set, matching Kind.
type LedgerEntry struct {
	Kind       EntryKind        `json:"kind"`
	Expense    *ExpenseEvent    `json:"expense,omitempty"`
	Settlement *SettlementEvent `json:"settlement,omitempty"`
	Reversal   *ReversalEvent   `json:"reversal,omitempty"`
}

func NewExpenseEntry(e ExpenseEvent) LedgerEntry {
	return LedgerEntry{Kind: EntryExpense, Expense: &e}
}

func NewSettlementEntry(s SettlementEvent) LedgerEntry {
	return LedgerEntry{Kind: EntrySettlement, Settlement: &s}
}

func NewReversalEntry(r ReversalEvent) LedgerEntry {
	return LedgerEntry{Kind: EntryReversal, Reversal: &r}
}

// Header returns the shared event header.
func (e LedgerEntry) Header() EventHeader {
	switch e.Kind {
	case EntryExpense:
		return e.Expense.EventHeader
	case EntrySettlement:
		return e.Settlement.EventHeader
	case EntryReversal:
		return e.Reversal.EventHeader
	}
	return EventHeader{}
}

// WithSequence returns a copy of the entry carrying the given sequence number.
func (e LedgerEntry) WithSequence(seq int64) LedgerEntry {
	switch e.Kind {
	case EntryExpense:
		ev := *e.Expense
		ev.Sequence = seq
		return NewExpenseEntry(ev)
	case EntrySettlement:
		ev := *e.Settlement
		ev.Sequence = seq
		return NewSettlementEntry(ev)
	case EntryReversal:
		ev := *e.Reversal
		ev.Sequence = seq
		return NewReversalEntry(ev)
	}
	return e
}

// CurrencyCode returns the currency of the entry; reversals have none of their own.
func (e LedgerEntry) CurrencyCode() string {
	switch e.Kind {
	case EntryExpense:
		return e.Expense.CurrencyCode
	case EntrySettlement:
		return e.Settlement.CurrencyCode
	}
	return ""
}

// ParticipantIDs returns every participant referenced by the entry, sorted and unique.
func (e LedgerEntry) ParticipantIDs() []string {
	var ids []string
	switch e.Kind {
	case EntryExpense:
		ids = append(ids, e.Expense.PayerID)
		for _, s := range e.Expense.Shares {
			ids = append(ids, s.ParticipantID)
		}
	case EntrySettlement:
		ids = append(ids, e.Settlement.PayerID, e.Settlement.PayeeID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Before reports whether e sorts before other in ledger order:
// ascending OccurredAt, ties broken by Sequence.
func (e LedgerEntry) Before(other LedgerEntry) bool {
	a, b := e.Header(), other.Header()
	if !a.OccurredAt.Equal(b.OccurredAt) {
		return a.OccurredAt.Before(b.OccurredAt)
	}
	return a.Sequence < b.Sequence
}

// Group is the ledger header of a group: its single currency and the last
// sequence number handed out.
type Group struct {
	GroupID      string `json:"groupID"`
	CurrencyCode string `json:"currencyCode"`
	HeadSequence int64  `json:"headSequence"`
}
