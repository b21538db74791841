package mapping

import (
	"fmt"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/SscSPs/group_ledger/internal/models"
	"github.com/samber/lo"
)

// ToModelLedgerGroup converts a domain Group to a model LedgerGroup
func ToModelLedgerGroup(d domain.Group) models.LedgerGroup {
	return models.LedgerGroup{
		GroupID:      d.GroupID,
		CurrencyCode: d.CurrencyCode,
		HeadSequence: d.HeadSequence,
	}
}

// ToDomainGroup converts a model LedgerGroup to a domain Group
func ToDomainGroup(m models.LedgerGroup) domain.Group {
	return domain.Group{
		GroupID:      m.GroupID,
		CurrencyCode: m.CurrencyCode,
		HeadSequence: m.HeadSequence,
	}
}

// ToModelLedgerEntry flattens a domain LedgerEntry into a single row.
// Expense shares travel in the Shares field.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	h := d.Header()
	m := models.LedgerEntry{
		GroupID:    h.GroupID,
		Sequence:   h.Sequence,
		EventID:    h.EventID,
		Kind:       string(d.Kind),
		OccurredAt: h.OccurredAt,
		RecordedAt: h.RecordedAt,
		RecordedBy: h.RecordedBy,
	}

	switch d.Kind {
	case domain.EntryExpense:
		e := d.Expense
		m.PayerID = lo.ToPtr(e.PayerID)
		m.Amount = e.TotalAmount
		m.CurrencyCode = e.CurrencyCode
		m.SplitMode = lo.ToPtr(string(e.SplitMode))
		m.Memo = e.Memo
		m.SourceRef = e.SourceRef
		m.Shares = lo.Map(e.Shares, func(s domain.Share, _ int) models.ExpenseShare {
			return models.ExpenseShare{
				GroupID:       h.GroupID,
				Sequence:      h.Sequence,
				ParticipantID: s.ParticipantID,
				Amount:        s.Amount,
			}
		})
	case domain.EntrySettlement:
		s := d.Settlement
		m.PayerID = lo.ToPtr(s.PayerID)
		m.PayeeID = lo.ToPtr(s.PayeeID)
		m.Amount = s.Amount
		m.CurrencyCode = s.CurrencyCode
		m.Memo = s.Memo
	case domain.EntryReversal:
		m.ReversedSequence = lo.ToPtr(d.Reversal.ReversedSequence)
		m.Reason = d.Reversal.Reason
	}
	return m
}

// ToDomainLedgerEntry rebuilds a domain LedgerEntry from its row.
func ToDomainLedgerEntry(m models.LedgerEntry) (domain.LedgerEntry, error) {
	header := domain.EventHeader{
		EventID:    m.EventID,
		GroupID:    m.GroupID,
		Sequence:   m.Sequence,
		OccurredAt: m.OccurredAt,
		RecordedAt: m.RecordedAt,
		RecordedBy: m.RecordedBy,
	}

	switch domain.EntryKind(m.Kind) {
	case domain.EntryExpense:
		return domain.NewExpenseEntry(domain.ExpenseEvent{
			EventHeader:  header,
			PayerID:      lo.FromPtr(m.PayerID),
			TotalAmount:  m.Amount,
			CurrencyCode: m.CurrencyCode,
			SplitMode:    domain.SplitMode(lo.FromPtr(m.SplitMode)),
			Shares: lo.Map(m.Shares, func(s models.ExpenseShare, _ int) domain.Share {
				return domain.Share{ParticipantID: s.ParticipantID, Amount: s.Amount}
			}),
			Memo:      m.Memo,
			SourceRef: m.SourceRef,
		}), nil
	case domain.EntrySettlement:
		return domain.NewSettlementEntry(domain.SettlementEvent{
			EventHeader:  header,
			PayerID:      lo.FromPtr(m.PayerID),
			PayeeID:      lo.FromPtr(m.PayeeID),
			Amount:       m.Amount,
			CurrencyCode: m.CurrencyCode,
			Memo:         m.Memo,
		}), nil
	case domain.EntryReversal:
		return domain.NewReversalEntry(domain.ReversalEvent{
			EventHeader:      header,
			ReversedSequence: lo.FromPtr(m.ReversedSequence),
			Reason:           m.Reason,
		}), nil
	}
	return domain.LedgerEntry{}, fmt.Errorf("unknown ledger entry kind %q at sequence %d", m.Kind, m.Sequence)
}

// ToDomainLedgerEntrySlice converts rows to domain entries, stopping at the first unknown kind.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) ([]domain.LedgerEntry, error) {
	ds := make([]domain.LedgerEntry, 0, len(ms))
	for _, m := range ms {
		d, err := ToDomainLedgerEntry(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}
