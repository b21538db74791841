package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
	"github.com/SscSPs/group_ledger/internal/core/services"
	"github.com/SscSPs/group_ledger/internal/dto"
	"github.com/SscSPs/group_ledger/internal/platform/config"
	"github.com/SscSPs/group_ledger/internal/repositories/database/badgerdb"
	"github.com/SscSPs/group_ledger/pkg/database"
)

var day = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

// newTestServices wires the real services over an in-memory Badger store.
func newTestServices(t *testing.T) *portssvc.ServiceContainer {
	t.Helper()
	db, err := database.NewBadgerDB("")
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseBadgerDB(db) })

	cfg := &config.Config{
		DefaultCurrency:    "ILS",
		MaxExpenseAmount:   decimal.NewFromInt(100000),
		LedgerWriteRetries: 5,
	}
	return services.NewServiceContainer(cfg, badgerdb.NewRepositoryProvider(db), nil)
}

func register(t *testing.T, svc *portssvc.ServiceContainer, group string, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := svc.Participant.Register(context.Background(), group, id, "", "bot")
		require.NoError(t, err)
	}
}

func balancesOf(t *testing.T, svc *portssvc.ServiceContainer, group string) map[string]string {
	t.Helper()
	snap, err := svc.Balance.ComputeBalances(context.Background(), group, time.Time{})
	require.NoError(t, err)
	require.True(t, snap.Total().IsZero())
	out := make(map[string]string, len(snap.Balances))
	for id, b := range snap.Balances {
		out[id] = b.String()
	}
	return out
}

func TestLedgerFlow_EqualSplitAndSettlement(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	register(t, svc, "g1", "A", "B", "C")

	_, err := svc.Ledger.RecordExpense(ctx, "g1", dto.RecordExpenseRequest{
		PayerID:     "A",
		TotalAmount: decimal.NewFromInt(90),
		Split:       dto.SplitRequest{Beneficiaries: []string{"A", "B", "C"}},
		OccurredAt:  day,
	}, "bot")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "60", "B": "-30", "C": "-30"}, balancesOf(t, svc, "g1"))

	_, transfers, err := svc.Settlement.SuggestSettlements(ctx, "g1", time.Time{})
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, "B", transfers[0].From)
	assert.Equal(t, "C", transfers[1].From)

	_, err = svc.Ledger.RecordSettlement(ctx, "g1", dto.RecordSettlementRequest{
		PayerID:    "B",
		PayeeID:    "A",
		Amount:     decimal.NewFromInt(30),
		OccurredAt: day.Add(time.Hour),
	}, "bot")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "30", "B": "0", "C": "-30"}, balancesOf(t, svc, "g1"))

	// Balances as of before the settlement are unaffected by it.
	snap, err := svc.Balance.ComputeBalances(ctx, "g1", day.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, snap.Balances["B"].Equal(decimal.NewFromInt(-30)))
}

func TestLedgerFlow_TwoExpenses(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	register(t, svc, "g1", "A", "B", "C")

	_, err := svc.Ledger.RecordExpense(ctx, "g1", dto.RecordExpenseRequest{
		PayerID: "A", TotalAmount: decimal.NewFromInt(100),
		Split: dto.SplitRequest{Beneficiaries: []string{"A", "B"}}, OccurredAt: day,
	}, "bot")
	require.NoError(t, err)
	_, err = svc.Ledger.RecordExpense(ctx, "g1", dto.RecordExpenseRequest{
		PayerID: "B", TotalAmount: decimal.NewFromInt(30),
		Split: dto.SplitRequest{Beneficiaries: []string{"B", "C"}}, OccurredAt: day.Add(time.Minute),
	}, "bot")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"A": "50", "B": "-35", "C": "-15"}, balancesOf(t, svc, "g1"))

	resp, err := svc.Query.GetSettlementSuggestions(ctx, "g1", time.Time{})
	require.NoError(t, err)
	require.Len(t, resp.Transfers, 2)
	assert.Equal(t, dto.TransferResponse{From: "B", FromLabel: "@B", To: "A", ToLabel: "@A", Amount: resp.Transfers[0].Amount, Formatted: "35"}, resp.Transfers[0])
	assert.Equal(t, "15", resp.Transfers[1].Formatted)
}

func TestLedgerFlow_UnknownParticipantLeavesHistoryUnchanged(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	register(t, svc, "g1", "A", "B")

	_, err := svc.Ledger.RecordExpense(ctx, "g1", dto.RecordExpenseRequest{
		PayerID: "A", TotalAmount: decimal.NewFromInt(10),
		Split: dto.SplitRequest{Beneficiaries: []string{"A", "B", "ghost"}},
	}, "bot")
	assert.ErrorIs(t, err, apperrors.ErrUnknownParticipant)

	count := 0
	for _, err := range svc.Ledger.History(ctx, "g1", time.Time{}, time.Time{}) {
		require.NoError(t, err)
		count++
	}
	assert.Zero(t, count)
}

func TestLedgerFlow_HistoryIsOrderedByOccurrence(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	register(t, svc, "g1", "A", "B")

	// Recorded out of order: the second append happened first.
	for _, at := range []time.Time{day.Add(2 * time.Hour), day, day.Add(time.Hour)} {
		_, err := svc.Ledger.RecordSettlement(ctx, "g1", dto.RecordSettlementRequest{
			PayerID: "B", PayeeID: "A", Amount: decimal.NewFromInt(1), OccurredAt: at,
		}, "bot")
		require.NoError(t, err)
	}

	var seqs []int64
	for e, err := range svc.Ledger.History(ctx, "g1", time.Time{}, time.Time{}) {
		require.NoError(t, err)
		seqs = append(seqs, e.Header().Sequence)
	}
	assert.Equal(t, []int64{2, 3, 1}, seqs)

	seqs = nil
	for e, err := range svc.Ledger.History(ctx, "g1", day.Add(time.Hour), time.Time{}) {
		require.NoError(t, err)
		seqs = append(seqs, e.Header().Sequence)
	}
	assert.Equal(t, []int64{3, 1}, seqs)

	page, next, err := svc.Ledger.ListEntries(ctx, "g1", dto.ListEntriesParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	rest, next, err := svc.Ledger.ListEntries(ctx, "g1", dto.ListEntriesParams{Limit: 2, NextToken: next})
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, rest, 1)
	assert.Equal(t, int64(1), rest[0].Header().Sequence)
}

func TestLedgerFlow_FarFutureEntryStaysInOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	register(t, svc, "g1", "A", "B")

	farFuture := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Ledger.RecordExpense(ctx, "g1", dto.RecordExpenseRequest{
		PayerID:     "A",
		TotalAmount: decimal.NewFromInt(10),
		Split:       dto.SplitRequest{Beneficiaries: []string{"A", "B"}},
		OccurredAt:  farFuture,
	}, "bot")
	require.NoError(t, err)
	_, err = svc.Ledger.RecordExpense(ctx, "g1", dto.RecordExpenseRequest{
		PayerID:     "B",
		TotalAmount: decimal.NewFromInt(20),
		Split:       dto.SplitRequest{Beneficiaries: []string{"A", "B"}},
		OccurredAt:  day,
	}, "bot")
	require.NoError(t, err)

	var seqs []int64
	for e, err := range svc.Ledger.History(ctx, "g1", time.Time{}, time.Time{}) {
		require.NoError(t, err)
		seqs = append(seqs, e.Header().Sequence)
	}
	assert.Equal(t, []int64{2, 1}, seqs)

	// The entry dated 2300 is not part of today's balances.
	assert.Equal(t, map[string]string{"A": "-10", "B": "10"}, balancesOf(t, svc, "g1"))

	page, _, err := svc.Ledger.ListEntries(ctx, "g1", dto.ListEntriesParams{Limit: 10, Until: day.Add(time.Hour)})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(2), page[0].Header().Sequence)
}

func TestLedgerFlow_RejectsUnstorableOccurredAt(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	register(t, svc, "g1", "A", "B")

	for _, at := range []time.Time{
		time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		_, err := svc.Ledger.RecordSettlement(ctx, "g1", dto.RecordSettlementRequest{
			PayerID: "B", PayeeID: "A", Amount: decimal.NewFromInt(1), OccurredAt: at,
		}, "bot")
		assert.ErrorIs(t, err, apperrors.ErrValidation, "occurredAt %s", at)
	}

	_, err := svc.Ledger.GetGroup(ctx, "g1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedgerFlow_ReversalAndSummary(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	register(t, svc, "g1", "A", "B", "C")

	expense, err := svc.Ledger.RecordExpense(ctx, "g1", dto.RecordExpenseRequest{
		PayerID: "A", TotalAmount: decimal.NewFromInt(90),
		Split: dto.SplitRequest{Beneficiaries: []string{"A", "B", "C"}}, OccurredAt: day,
	}, "bot")
	require.NoError(t, err)

	_, err = svc.Ledger.ReverseEntry(ctx, "g1", expense.Sequence, dto.ReverseEntryRequest{Reason: "duplicate"}, "bot")
	require.NoError(t, err)
	_, err = svc.Ledger.ReverseEntry(ctx, "g1", expense.Sequence, dto.ReverseEntryRequest{}, "bot")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyReversed)

	snap, err := svc.Balance.ComputeBalances(ctx, "g1", time.Time{})
	require.NoError(t, err)
	assert.True(t, snap.IsSettled())
	assert.Equal(t, int64(2), snap.HeadSequence)

	summary, err := svc.Balance.Summary(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, summary.TotalExpenses.IsZero())
	assert.Equal(t, 2, summary.EntryCount)
	assert.Equal(t, 1, summary.ReversedCount)
	assert.Equal(t, 3, summary.Participants)
	assert.Equal(t, "ILS", summary.CurrencyCode)
}

func TestLedgerFlow_CurrencyFixedByFirstEntry(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	register(t, svc, "g1", "A", "B")

	_, err := svc.Ledger.RecordSettlement(ctx, "g1", dto.RecordSettlementRequest{
		PayerID: "B", PayeeID: "A", Amount: decimal.NewFromInt(5), CurrencyCode: "USD",
	}, "bot")
	require.NoError(t, err)

	_, err = svc.Ledger.RecordSettlement(ctx, "g1", dto.RecordSettlementRequest{
		PayerID: "B", PayeeID: "A", Amount: decimal.NewFromInt(5), CurrencyCode: "EUR",
	}, "bot")
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)

	group, err := svc.Ledger.GetGroup(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "USD", group.CurrencyCode)
	assert.Equal(t, int64(1), group.HeadSequence)
}

func TestLedgerFlow_ConcurrentWritersGetDistinctSequences(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	register(t, svc, "g1", "A", "B", "C")
	register(t, svc, "g2", "A", "B")

	const writers = 30
	var wg sync.WaitGroup
	errs := make(chan error, 2*writers)
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Ledger.RecordExpense(ctx, "g1", dto.RecordExpenseRequest{
				PayerID:     []string{"A", "B", "C"}[i%3],
				TotalAmount: decimal.New(int64(1000+i), -2),
				Split:       dto.SplitRequest{Beneficiaries: []string{"A", "B", "C"}},
			}, "bot")
			errs <- err
		}(i)
		go func() {
			defer wg.Done()
			_, err := svc.Ledger.RecordSettlement(ctx, "g2", dto.RecordSettlementRequest{
				PayerID: "B", PayeeID: "A", Amount: decimal.NewFromInt(1),
			}, "bot")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for _, group := range []string{"g1", "g2"} {
		seen := make(map[int64]bool)
		for e, err := range svc.Ledger.History(ctx, group, time.Time{}, time.Time{}) {
			require.NoError(t, err)
			seq := e.Header().Sequence
			assert.False(t, seen[seq], "duplicate sequence %d in %s", seq, group)
			seen[seq] = true
		}
		assert.Len(t, seen, writers, group)
		for seq := int64(1); seq <= writers; seq++ {
			assert.True(t, seen[seq], fmt.Sprintf("missing sequence %d in %s", seq, group))
		}
	}
	balancesOf(t, svc, "g1")
}

func TestQueryFacade_ExtractedExpense(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	register(t, svc, "g1", "A", "B", "C", "D")
	require.NoError(t, svc.Participant.Deactivate(ctx, "g1", "D", "bot"))

	everyone, err := svc.Query.RecordExtractedExpense(ctx, "g1", dto.RecordExtractedExpenseRequest{
		PayerID: "A", Amount: decimal.NewFromInt(90), Everyone: true,
	}, "bot")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, domain.NewExpenseEntry(*everyone).ParticipantIDs())

	mentioned, err := svc.Query.RecordExtractedExpense(ctx, "g1", dto.RecordExtractedExpenseRequest{
		PayerID: "B", Amount: decimal.NewFromInt(10), Beneficiaries: []string{"C"},
	}, "bot")
	require.NoError(t, err)
	require.Len(t, mentioned.Shares, 2)
	assert.Equal(t, "B", mentioned.Shares[0].ParticipantID)

	_, err = svc.Query.RecordExtractedExpense(ctx, "g1", dto.RecordExtractedExpenseRequest{
		PayerID: "B", Amount: decimal.NewFromInt(10),
	}, "bot")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	resp, err := svc.Query.ExecuteQuery(ctx, "g1", dto.StructuredQueryRequest{Kind: dto.QueryBalance})
	require.NoError(t, err)
	require.NotNil(t, resp.Balances)
	assert.Nil(t, resp.Settlements)
	assert.Equal(t, "+60", resp.Balances.Balances[0].Formatted)
	assert.Equal(t, "@A", resp.Balances.Balances[0].Label)

	resp, err = svc.Query.ExecuteQuery(ctx, "g1", dto.StructuredQueryRequest{Kind: dto.QueryHistory, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, resp.History.Entries, 2)

	resp, err = svc.Query.ExecuteQuery(ctx, "g1", dto.StructuredQueryRequest{Kind: dto.QuerySummary})
	require.NoError(t, err)
	assert.True(t, resp.Summary.TotalExpenses.Equal(decimal.NewFromInt(100)))

	_, err = svc.Query.ExecuteQuery(ctx, "g1", dto.StructuredQueryRequest{Kind: "gossip"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
