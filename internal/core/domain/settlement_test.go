package domain_test

import (
	"math/rand"
	"testing"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(balances map[string]string) domain.BalanceSnapshot {
	snap := domain.BalanceSnapshot{GroupID: "g1", CurrencyCode: "ILS", Balances: map[string]decimal.Decimal{}}
	for id, b := range balances {
		snap.Balances[id] = dec(b)
	}
	return snap
}

func TestSuggestSettlements_TwoDebtorsOneCreditor(t *testing.T) {
	snap := snapshotOf(map[string]string{"A": "50", "B": "-35", "C": "-15"})

	transfers := domain.SuggestSettlements(snap)

	require.Len(t, transfers, 2)
	assert.Equal(t, "B", transfers[0].From)
	assert.Equal(t, "A", transfers[0].To)
	assert.True(t, transfers[0].Amount.Equal(dec("35")))
	assert.Equal(t, "C", transfers[1].From)
	assert.Equal(t, "A", transfers[1].To)
	assert.True(t, transfers[1].Amount.Equal(dec("15")))
	assert.True(t, snap.WithTransfers(transfers).IsSettled())
}

func TestSuggestSettlements_SettledGroup(t *testing.T) {
	transfers := domain.SuggestSettlements(snapshotOf(map[string]string{"A": "0", "B": "0"}))
	assert.NotNil(t, transfers)
	assert.Empty(t, transfers)

	assert.Empty(t, domain.SuggestSettlements(snapshotOf(nil)))
}

func TestSuggestSettlements_TiesBreakByParticipantID(t *testing.T) {
	snap := snapshotOf(map[string]string{"bob": "-10", "amy": "-10", "zed": "10", "kim": "10"})

	transfers := domain.SuggestSettlements(snap)

	require.Len(t, transfers, 2)
	assert.Equal(t, domain.SuggestedTransfer{From: "amy", To: "kim", Amount: transfers[0].Amount}, transfers[0])
	assert.Equal(t, domain.SuggestedTransfer{From: "bob", To: "zed", Amount: transfers[1].Amount}, transfers[1])
}

func TestSuggestSettlements_DoesNotMutateSnapshot(t *testing.T) {
	snap := snapshotOf(map[string]string{"A": "60", "B": "-30", "C": "-30"})

	_ = domain.SuggestSettlements(snap)

	assert.True(t, snap.Balances["A"].Equal(dec("60")))
	assert.True(t, snap.Balances["B"].Equal(dec("-30")))
}

func TestSuggestSettlements_AlwaysSettlesWithinBound(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		n := 2 + rng.Intn(8)
		balances := make(map[string]decimal.Decimal, n)
		sum := decimal.Zero
		for i := 0; i < n-1; i++ {
			b := decimal.New(int64(rng.Intn(200001)-100000), -2)
			balances[string(rune('a'+i))] = b
			sum = sum.Add(b)
		}
		balances[string(rune('a'+n-1))] = sum.Neg()
		snap := domain.BalanceSnapshot{Balances: balances}

		transfers := domain.SuggestSettlements(snap)

		nonZero := 0
		for _, b := range balances {
			if !b.IsZero() {
				nonZero++
			}
		}
		if nonZero > 0 {
			assert.LessOrEqual(t, len(transfers), nonZero-1, "round %d", round)
		}
		for _, tr := range transfers {
			assert.True(t, tr.Amount.IsPositive(), "round %d: non-positive transfer", round)
			assert.NotEqual(t, tr.From, tr.To)
		}
		assert.True(t, snap.WithTransfers(transfers).IsSettled(), "round %d", round)
	}
}
