package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// BalanceSnapshot maps participants to their signed net balance:
// positive means the group owes them, negative means they owe the group.
// It is always derived from the ledger and never persisted.
type BalanceSnapshot struct {
	GroupID      string                     `json:"groupID"`
	AsOf         time.Time                  `json:"asOf"`
	CurrencyCode string                     `json:"currencyCode"`
	HeadSequence int64                      `json:"headSequence"` // Highest sequence folded in
	EntryCount   int                        `json:"entryCount"`
	Balances     map[string]decimal.Decimal `json:"balances"`
}

// Total returns the sum of all balances. It is zero for any valid snapshot.
func (s BalanceSnapshot) Total() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Balances {
		total = total.Add(b)
	}
	return total
}

// ParticipantIDs returns the participants in the snapshot in ascending order.
func (s BalanceSnapshot) ParticipantIDs() []string {
	ids := make([]string, 0, len(s.Balances))
	for id := range s.Balances {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// IsSettled reports whether every balance is zero.
func (s BalanceSnapshot) IsSettled() bool {
	for _, b := range s.Balances {
		if !b.IsZero() {
			return false
		}
	}
	return true
}

// WithTransfers returns the snapshot that would result from executing the
// given transfers as settlements.
func (s BalanceSnapshot) WithTransfers(transfers []SuggestedTransfer) BalanceSnapshot {
	out := s
	out.Balances = make(map[string]decimal.Decimal, len(s.Balances))
	for id, b := range s.Balances {
		out.Balances[id] = b
	}
	for _, t := range transfers {
		out.Balances[t.From] = out.Balances[t.From].Add(t.Amount)
		out.Balances[t.To] = out.Balances[t.To].Sub(t.Amount)
	}
	return out
}

// BalanceFold accumulates ledger entries, in ledger order, into net balances.
type BalanceFold struct {
	balances     map[string]decimal.Decimal
	applied      map[int64]LedgerEntry
	reversed     map[int64]bool
	currencyCode string
	head         int64
	count        int
}

// NewBalanceFold returns an empty fold.
func NewBalanceFold() *BalanceFold {
	return &BalanceFold{
		balances: make(map[string]decimal.Decimal),
		applied:  make(map[int64]LedgerEntry),
		reversed: make(map[int64]bool),
	}
}

// Apply folds one entry. Any error it returns wraps ErrLedgerCorrupted: the
// entries were validated on append, so a failure here means stored data
// no longer satisfies the ledger invariants.
func (f *BalanceFold) Apply(entry LedgerEntry) error {
	header := entry.Header()
	if err := f.apply(entry, false); err != nil {
		return fmt.Errorf("%w: entry %d: %v", apperrors.ErrLedgerCorrupted, header.Sequence, err)
	}
	if entry.Kind != EntryReversal {
		f.applied[header.Sequence] = entry
	}
	if f.currencyCode == "" {
		f.currencyCode = entry.CurrencyCode()
	}
	if header.Sequence > f.head {
		f.head = header.Sequence
	}
	f.count++
	return nil
}

func (f *BalanceFold) apply(entry LedgerEntry, negate bool) error {
	credit := func(id string, amount decimal.Decimal) {
		if negate {
			amount = amount.Neg()
		}
		f.balances[id] = f.balances[id].Add(amount)
	}

	switch entry.Kind {
	case EntryExpense:
		e := entry.Expense
		if err := e.Validate(); err != nil {
			return err
		}
		credit(e.PayerID, e.TotalAmount)
		for _, s := range e.Shares {
			credit(s.ParticipantID, s.Amount.Neg())
		}
	case EntrySettlement:
		s := entry.Settlement
		if !s.Amount.IsPositive() || s.PayerID == s.PayeeID {
			return fmt.Errorf("invalid settlement")
		}
		// Paying off debt moves the payer toward zero and the payee down by the same amount.
		credit(s.PayerID, s.Amount)
		credit(s.PayeeID, s.Amount.Neg())
	case EntryReversal:
		r := entry.Reversal
		target, ok := f.applied[r.ReversedSequence]
		if !ok {
			return fmt.Errorf("reversed entry %d not found before reversal", r.ReversedSequence)
		}
		if f.reversed[r.ReversedSequence] {
			return fmt.Errorf("entry %d reversed twice", r.ReversedSequence)
		}
		f.reversed[r.ReversedSequence] = true
		return f.apply(target, !negate)
	default:
		return fmt.Errorf("unknown entry kind %q", entry.Kind)
	}
	return nil
}

// Snapshot returns the accumulated balances. It refuses to return a snapshot
// whose total is not exactly zero.
func (f *BalanceFold) Snapshot(groupID string, asOf time.Time) (*BalanceSnapshot, error) {
	balances := make(map[string]decimal.Decimal, len(f.balances))
	total := decimal.Zero
	for id, b := range f.balances {
		balances[id] = b
		total = total.Add(b)
	}
	if !total.IsZero() {
		return nil, fmt.Errorf("%w: balances of group %s sum to %s", apperrors.ErrLedgerCorrupted, groupID, total)
	}
	return &BalanceSnapshot{
		GroupID:      groupID,
		AsOf:         asOf,
		CurrencyCode: f.currencyCode,
		HeadSequence: f.head,
		EntryCount:   f.count,
		Balances:     balances,
	}, nil
}
