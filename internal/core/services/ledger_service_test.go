package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/audit"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
	"github.com/SscSPs/group_ledger/internal/core/services"
	"github.com/SscSPs/group_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 5, 10, 18, 30, 0, 123456789, time.UTC)

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	ledgerRepo      *MockLedgerRepository
	participantRepo *MockParticipantRepository
	auditor         *recordingPublisher
	service         portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.ledgerRepo = new(MockLedgerRepository)
	suite.participantRepo = new(MockParticipantRepository)
	suite.auditor = &recordingPublisher{}
	suite.service = services.NewLedgerService(suite.ledgerRepo, suite.participantRepo,
		services.WithAuditPublisher(suite.auditor),
		services.WithDefaultCurrency("ils"),
		services.WithMaxExpenseAmount(decimal.NewFromInt(100000)),
		services.WithWriteRetries(2),
		services.WithClock(func() time.Time { return fixedNow }),
	)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func active(ids ...string) map[string]domain.Participant {
	out := make(map[string]domain.Participant, len(ids))
	for _, id := range ids {
		out[id] = domain.Participant{GroupID: "g1", ParticipantID: id, IsActive: true}
	}
	return out
}

func expenseRequest(total string, beneficiaries ...string) dto.RecordExpenseRequest {
	return dto.RecordExpenseRequest{
		PayerID:     "A",
		TotalAmount: decimal.RequireFromString(total),
		Split:       dto.SplitRequest{Beneficiaries: beneficiaries},
	}
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_Success() {
	suite.ledgerRepo.On("FindGroup", suite.ctx, "g1").Return(nil, apperrors.ErrNotFound).Once()
	suite.participantRepo.On("FindParticipantsByIDs", suite.ctx, "g1", []string{"A", "B", "C"}).Return(active("A", "B", "C"), nil).Once()
	suite.ledgerRepo.On("AppendEntry", suite.ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Kind == domain.EntryExpense && e.Expense.CurrencyCode == "ILS"
	})).Return(assignSequence(1), nil).Once()

	event, err := suite.service.RecordExpense(suite.ctx, "g1", expenseRequest("90", "C", "B", "A"), "bot")

	suite.Require().NoError(err)
	suite.Equal(int64(1), event.Sequence)
	suite.Equal(domain.SplitEqual, event.SplitMode)
	suite.Equal("bot", event.RecordedBy)
	suite.NotEmpty(event.EventID)
	suite.Equal(fixedNow.Truncate(time.Microsecond), event.OccurredAt)
	suite.Len(event.Shares, 3)
	for _, s := range event.Shares {
		suite.True(s.Amount.Equal(decimal.NewFromInt(30)))
	}
	suite.Equal([]string{audit.TypeExpenseRecorded}, suite.auditor.types)
	suite.ledgerRepo.AssertExpectations(suite.T())
	suite.participantRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_UnknownParticipantAppendsNothing() {
	suite.ledgerRepo.On("FindGroup", suite.ctx, "g1").Return(&domain.Group{GroupID: "g1", CurrencyCode: "ILS", HeadSequence: 4}, nil).Once()
	suite.participantRepo.On("FindParticipantsByIDs", suite.ctx, "g1", []string{"A", "B", "ghost"}).Return(active("A", "B"), nil).Once()

	_, err := suite.service.RecordExpense(suite.ctx, "g1", expenseRequest("90", "A", "B", "ghost"), "bot")

	suite.ErrorIs(err, apperrors.ErrUnknownParticipant)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ledgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything)
	suite.Empty(suite.auditor.types)
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_InactiveBeneficiaryRejected() {
	participants := active("A", "B")
	b := participants["B"]
	b.IsActive = false
	participants["B"] = b
	suite.ledgerRepo.On("FindGroup", suite.ctx, "g1").Return(nil, apperrors.ErrNotFound).Once()
	suite.participantRepo.On("FindParticipantsByIDs", suite.ctx, "g1", []string{"A", "B"}).Return(participants, nil).Once()

	_, err := suite.service.RecordExpense(suite.ctx, "g1", expenseRequest("10", "A", "B"), "bot")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ledgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_InvalidAmounts() {
	suite.ledgerRepo.On("FindGroup", suite.ctx, "g1").Return(nil, apperrors.ErrNotFound)

	for _, total := range []string{"0", "-5", "100000.01", "10.001"} {
		_, err := suite.service.RecordExpense(suite.ctx, "g1", expenseRequest(total, "A"), "bot")
		suite.ErrorIs(err, apperrors.ErrInvalidAmount, "total %s", total)
	}
	suite.ledgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_ExactSharesMustSumToTotal() {
	suite.ledgerRepo.On("FindGroup", suite.ctx, "g1").Return(nil, apperrors.ErrNotFound).Once()
	req := expenseRequest("100")
	req.Split = dto.SplitRequest{Mode: domain.SplitExact, Amounts: map[string]decimal.Decimal{
		"A": decimal.RequireFromString("70.01"),
		"B": decimal.RequireFromString("30"),
	}}

	_, err := suite.service.RecordExpense(suite.ctx, "g1", req, "bot")

	suite.ErrorIs(err, apperrors.ErrShareMismatch)
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_CurrencyMismatch() {
	suite.ledgerRepo.On("FindGroup", suite.ctx, "g1").Return(&domain.Group{GroupID: "g1", CurrencyCode: "ILS", HeadSequence: 1}, nil).Once()
	req := expenseRequest("10", "A")
	req.CurrencyCode = "USD"

	_, err := suite.service.RecordExpense(suite.ctx, "g1", req, "bot")

	suite.ErrorIs(err, apperrors.ErrCurrencyMismatch)
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_RejectsMalformedRequest() {
	_, err := suite.service.RecordExpense(suite.ctx, "g1", dto.RecordExpenseRequest{TotalAmount: decimal.NewFromInt(1)}, "bot")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.RecordExpense(suite.ctx, "", expenseRequest("1", "A"), "bot")
	suite.ErrorIs(err, apperrors.ErrValidation)

	req := expenseRequest("1", "A")
	req.OccurredAt = time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC)
	_, err = suite.service.RecordExpense(suite.ctx, "g1", req, "bot")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_RetriesConcurrentModification() {
	suite.ledgerRepo.On("FindGroup", suite.ctx, "g1").Return(nil, apperrors.ErrNotFound).Once()
	suite.participantRepo.On("FindParticipantsByIDs", suite.ctx, "g1", []string{"A"}).Return(active("A"), nil).Once()
	suite.ledgerRepo.On("AppendEntry", suite.ctx, mock.Anything).Return(domain.LedgerEntry{}, apperrors.ErrConcurrentModification).Twice()
	suite.ledgerRepo.On("AppendEntry", suite.ctx, mock.Anything).Return(assignSequence(9), nil).Once()

	event, err := suite.service.RecordExpense(suite.ctx, "g1", expenseRequest("10", "A"), "bot")

	suite.Require().NoError(err)
	suite.Equal(int64(9), event.Sequence)
	suite.ledgerRepo.AssertNumberOfCalls(suite.T(), "AppendEntry", 3)
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_RetriesExhausted() {
	suite.ledgerRepo.On("FindGroup", suite.ctx, "g1").Return(nil, apperrors.ErrNotFound).Once()
	suite.participantRepo.On("FindParticipantsByIDs", suite.ctx, "g1", []string{"A"}).Return(active("A"), nil).Once()
	suite.ledgerRepo.On("AppendEntry", suite.ctx, mock.Anything).Return(domain.LedgerEntry{}, apperrors.ErrConcurrentModification)

	_, err := suite.service.RecordExpense(suite.ctx, "g1", expenseRequest("10", "A"), "bot")

	suite.ErrorIs(err, apperrors.ErrConcurrentModification)
	suite.ledgerRepo.AssertNumberOfCalls(suite.T(), "AppendEntry", 3)
	suite.Empty(suite.auditor.types)
}

func (suite *LedgerServiceTestSuite) TestRecordSettlement_AllowsInactiveParticipants() {
	participants := active("A", "B")
	b := participants["B"]
	b.IsActive = false
	participants["B"] = b
	suite.ledgerRepo.On("FindGroup", suite.ctx, "g1").Return(&domain.Group{GroupID: "g1", CurrencyCode: "ILS", HeadSequence: 1}, nil).Once()
	suite.participantRepo.On("FindParticipantsByIDs", suite.ctx, "g1", []string{"B", "A"}).Return(participants, nil).Once()
	suite.ledgerRepo.On("AppendEntry", suite.ctx, mock.Anything).Return(assignSequence(2), nil).Once()

	event, err := suite.service.RecordSettlement(suite.ctx, "g1", dto.RecordSettlementRequest{
		PayerID: "B",
		PayeeID: "A",
		Amount:  decimal.NewFromInt(30),
	}, "bot")

	suite.Require().NoError(err)
	suite.Equal(int64(2), event.Sequence)
	suite.Equal("ILS", event.CurrencyCode)
	suite.Equal([]string{audit.TypeSettlementRecorded}, suite.auditor.types)
}

func (suite *LedgerServiceTestSuite) TestRecordSettlement_SamePayerAndPayee() {
	_, err := suite.service.RecordSettlement(suite.ctx, "g1", dto.RecordSettlementRequest{
		PayerID: "A",
		PayeeID: "A",
		Amount:  decimal.NewFromInt(30),
	}, "bot")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestReverseEntry() {
	targetAt := fixedNow.Add(-time.Hour)
	target := domain.NewSettlementEntry(domain.SettlementEvent{
		EventHeader: domain.EventHeader{GroupID: "g1", Sequence: 3, OccurredAt: targetAt},
		PayerID:     "B", PayeeID: "A", Amount: decimal.NewFromInt(5), CurrencyCode: "ILS",
	})
	suite.ledgerRepo.On("FindEntry", suite.ctx, "g1", int64(3)).Return(&target, nil)
	suite.ledgerRepo.On("AppendEntry", suite.ctx, mock.Anything).Return(assignSequence(4), nil).Once()

	_, err := suite.service.ReverseEntry(suite.ctx, "g1", 3, dto.ReverseEntryRequest{OccurredAt: targetAt.Add(-time.Second)}, "bot")
	suite.ErrorIs(err, apperrors.ErrValidation)

	reversal, err := suite.service.ReverseEntry(suite.ctx, "g1", 3, dto.ReverseEntryRequest{Reason: " typo "}, "bot")
	suite.Require().NoError(err)
	suite.Equal(int64(4), reversal.Sequence)
	suite.Equal(int64(3), reversal.ReversedSequence)
	suite.Equal("typo", reversal.Reason)
	suite.Equal([]string{audit.TypeEntryReversed}, suite.auditor.types)
}

func (suite *LedgerServiceTestSuite) TestReverseEntry_CannotReverseReversal() {
	target := domain.NewReversalEntry(domain.ReversalEvent{
		EventHeader:      domain.EventHeader{GroupID: "g1", Sequence: 5, OccurredAt: fixedNow},
		ReversedSequence: 2,
	})
	suite.ledgerRepo.On("FindEntry", suite.ctx, "g1", int64(5)).Return(&target, nil).Once()
	suite.ledgerRepo.On("FindEntry", suite.ctx, "g1", int64(6)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ReverseEntry(suite.ctx, "g1", 5, dto.ReverseEntryRequest{}, "bot")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.ReverseEntry(suite.ctx, "g1", 6, dto.ReverseEntryRequest{}, "bot")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.ReverseEntry(suite.ctx, "g1", 0, dto.ReverseEntryRequest{}, "bot")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestHistory_PagesWithinHeadSequence() {
	entries := make([]domain.LedgerEntry, 3)
	for i := range entries {
		entries[i] = domain.NewSettlementEntry(domain.SettlementEvent{
			EventHeader: domain.EventHeader{GroupID: "g1", Sequence: int64(i + 1), OccurredAt: fixedNow.Add(time.Duration(i) * time.Minute)},
			PayerID:     "B", PayeeID: "A", Amount: decimal.NewFromInt(1), CurrencyCode: "ILS",
		})
	}
	token := "page-2"
	suite.ledgerRepo.On("FindGroup", suite.ctx, "g1").Return(&domain.Group{GroupID: "g1", CurrencyCode: "ILS", HeadSequence: 3}, nil)
	headBound := mock.MatchedBy(func(f portsrepo.EntryFilter) bool { return f.MaxSequence == 3 })
	suite.ledgerRepo.On("ListEntries", suite.ctx, "g1", headBound, mock.Anything, (*string)(nil)).
		Return(entries[:2], &token, nil).Once()
	suite.ledgerRepo.On("ListEntries", suite.ctx, "g1", headBound, mock.Anything, &token).
		Return(entries[2:], nil, nil).Once()

	var got []int64
	for e, err := range suite.service.History(suite.ctx, "g1", time.Time{}, time.Time{}) {
		suite.Require().NoError(err)
		got = append(got, e.Header().Sequence)
	}
	suite.Equal([]int64{1, 2, 3}, got)
	suite.ledgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestHistory_EmptyLedger() {
	suite.ledgerRepo.On("FindGroup", suite.ctx, "g1").Return(nil, apperrors.ErrNotFound).Once()

	count := 0
	for range suite.service.History(suite.ctx, "g1", time.Time{}, time.Time{}) {
		count++
	}
	suite.Zero(count)
	suite.ledgerRepo.AssertNotCalled(suite.T(), "ListEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
