package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)

func expenseEntry(t *testing.T, seq int64, payer, total string, beneficiaries ...string) domain.LedgerEntry {
	t.Helper()
	shares, err := domain.ResolveShares(dec(total), "ILS", domain.Split{Mode: domain.SplitEqual, Beneficiaries: beneficiaries})
	require.NoError(t, err)
	return domain.NewExpenseEntry(domain.ExpenseEvent{
		EventHeader:  domain.EventHeader{GroupID: "g1", Sequence: seq, OccurredAt: baseTime.Add(time.Duration(seq) * time.Minute)},
		PayerID:      payer,
		TotalAmount:  dec(total),
		CurrencyCode: "ILS",
		SplitMode:    domain.SplitEqual,
		Shares:       shares,
	})
}

func settlementEntry(seq int64, payer, payee, amount string) domain.LedgerEntry {
	return domain.NewSettlementEntry(domain.SettlementEvent{
		EventHeader:  domain.EventHeader{GroupID: "g1", Sequence: seq, OccurredAt: baseTime.Add(time.Duration(seq) * time.Minute)},
		PayerID:      payer,
		PayeeID:      payee,
		Amount:       dec(amount),
		CurrencyCode: "ILS",
	})
}

func fold(t *testing.T, entries ...domain.LedgerEntry) *domain.BalanceSnapshot {
	t.Helper()
	f := domain.NewBalanceFold()
	for _, e := range entries {
		require.NoError(t, f.Apply(e))
	}
	snap, err := f.Snapshot("g1", baseTime.Add(24*time.Hour))
	require.NoError(t, err)
	return snap
}

func assertBalance(t *testing.T, snap *domain.BalanceSnapshot, id, want string) {
	t.Helper()
	assert.True(t, snap.Balances[id].Equal(dec(want)), "balance of %s: want %s, got %s", id, want, snap.Balances[id])
}

func TestBalanceFold_EqualSplitScenario(t *testing.T) {
	snap := fold(t, expenseEntry(t, 1, "A", "90", "A", "B", "C"))

	assertBalance(t, snap, "A", "60")
	assertBalance(t, snap, "B", "-30")
	assertBalance(t, snap, "C", "-30")
	assert.True(t, snap.Total().IsZero())
	assert.Equal(t, int64(1), snap.HeadSequence)
	assert.Equal(t, "ILS", snap.CurrencyCode)
}

func TestBalanceFold_TwoExpenseScenario(t *testing.T) {
	snap := fold(t,
		expenseEntry(t, 1, "A", "100", "A", "B"),
		expenseEntry(t, 2, "B", "30", "B", "C"),
	)

	assertBalance(t, snap, "A", "50")
	assertBalance(t, snap, "B", "-35")
	assertBalance(t, snap, "C", "-15")
}

func TestBalanceFold_SettlementMovesTowardZero(t *testing.T) {
	snap := fold(t,
		expenseEntry(t, 1, "A", "90", "A", "B", "C"),
		settlementEntry(2, "B", "A", "30"),
	)

	assertBalance(t, snap, "A", "30")
	assertBalance(t, snap, "B", "0")
	assertBalance(t, snap, "C", "-30")
}

func TestBalanceFold_OverpaymentFlipsSign(t *testing.T) {
	snap := fold(t,
		expenseEntry(t, 1, "A", "90", "A", "B", "C"),
		settlementEntry(2, "B", "A", "50"),
	)

	assertBalance(t, snap, "A", "10")
	assertBalance(t, snap, "B", "20")
	assertBalance(t, snap, "C", "-30")
}

func TestBalanceFold_ReversalCancelsEntry(t *testing.T) {
	reversal := domain.NewReversalEntry(domain.ReversalEvent{
		EventHeader:      domain.EventHeader{GroupID: "g1", Sequence: 3, OccurredAt: baseTime.Add(3 * time.Minute)},
		ReversedSequence: 1,
	})
	snap := fold(t,
		expenseEntry(t, 1, "A", "90", "A", "B", "C"),
		expenseEntry(t, 2, "B", "30", "B", "C"),
		reversal,
	)

	assertBalance(t, snap, "A", "0")
	assertBalance(t, snap, "B", "15")
	assertBalance(t, snap, "C", "-15")
	assert.Equal(t, 3, snap.EntryCount)
}

func TestBalanceFold_CorruptedExpenseIsFatal(t *testing.T) {
	entry := expenseEntry(t, 1, "A", "90", "A", "B", "C")
	entry.Expense.Shares[0].Amount = dec("31")

	err := domain.NewBalanceFold().Apply(entry)
	assert.ErrorIs(t, err, apperrors.ErrLedgerCorrupted)
}

func TestBalanceFold_DoubleReversalIsFatal(t *testing.T) {
	f := domain.NewBalanceFold()
	require.NoError(t, f.Apply(expenseEntry(t, 1, "A", "90", "A", "B", "C")))
	rev := func(seq int64) domain.LedgerEntry {
		return domain.NewReversalEntry(domain.ReversalEvent{
			EventHeader:      domain.EventHeader{Sequence: seq, OccurredAt: baseTime.Add(time.Hour)},
			ReversedSequence: 1,
		})
	}
	require.NoError(t, f.Apply(rev(2)))
	assert.ErrorIs(t, f.Apply(rev(3)), apperrors.ErrLedgerCorrupted)
}

func TestBalanceFold_SumIsAlwaysZero(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	people := []string{"ana", "ben", "chen", "dov", "eli"}

	for round := 0; round < 50; round++ {
		f := domain.NewBalanceFold()
		for seq := int64(1); seq <= 30; seq++ {
			var entry domain.LedgerEntry
			if rng.Intn(4) == 0 {
				i := rng.Intn(len(people))
				j := (i + 1 + rng.Intn(len(people)-1)) % len(people)
				entry = settlementEntry(seq, people[i], people[j], decimal.New(int64(1+rng.Intn(50000)), -2).String())
			} else {
				n := 1 + rng.Intn(len(people))
				perm := rng.Perm(len(people))[:n]
				beneficiaries := make([]string, n)
				for k, p := range perm {
					beneficiaries[k] = people[p]
				}
				total := decimal.New(int64(1+rng.Intn(1000000)), -2).String()
				entry = expenseEntry(t, seq, people[rng.Intn(len(people))], total, beneficiaries...)
			}
			require.NoError(t, f.Apply(entry))
		}
		snap, err := f.Snapshot("g1", baseTime)
		require.NoError(t, err)
		assert.True(t, snap.Total().IsZero(), "round %d: total %s", round, snap.Total())
	}
}

func TestLedgerEntry_Before(t *testing.T) {
	early := settlementEntry(5, "A", "B", "1")
	late := settlementEntry(1, "A", "B", "1")
	late.Settlement.OccurredAt = early.Settlement.OccurredAt.Add(time.Second)
	sameTime := settlementEntry(6, "A", "B", "1")
	sameTime.Settlement.OccurredAt = early.Settlement.OccurredAt

	assert.True(t, early.Before(late))
	assert.False(t, late.Before(early))
	assert.True(t, early.Before(sameTime))
}
