package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/audit"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
	"github.com/SscSPs/group_ledger/internal/dto"
)

const (
	defaultHistoryPageSize = 200
	defaultListLimit       = 50
)

// ledgerService owns the append path of every group ledger.
type ledgerService struct {
	BaseService
	ledgerRepo      portsrepo.LedgerRepositoryFacade
	participantRepo portsrepo.ParticipantReader
	auditor         audit.Publisher
	validate        *validator.Validate
	locks           *keyedMutex

	defaultCurrency string
	maxAmount       decimal.Decimal // Zero disables the cap
	maxRetries      int
	pageSize        int
}

// LedgerOption is a functional option for configuring the ledger service
type LedgerOption func(*ledgerService)

// WithAuditPublisher sends every appended entry to the audit worker.
func WithAuditPublisher(p audit.Publisher) LedgerOption {
	return func(s *ledgerService) {
		if p != nil {
			s.auditor = p
		}
	}
}

// WithDefaultCurrency sets the currency used by a group's first entry when the caller gives none.
func WithDefaultCurrency(code string) LedgerOption {
	return func(s *ledgerService) {
		s.defaultCurrency = domain.NormalizeCurrencyCode(code)
	}
}

// WithMaxExpenseAmount caps single expense and settlement amounts.
func WithMaxExpenseAmount(limit decimal.Decimal) LedgerOption {
	return func(s *ledgerService) {
		s.maxAmount = limit
	}
}

// WithWriteRetries sets how often a conflicting append is retried.
func WithWriteRetries(n int) LedgerOption {
	return func(s *ledgerService) {
		s.maxRetries = max(n, 0)
	}
}

// WithHistoryPageSize sets the page size History reads from storage.
func WithHistoryPageSize(n int) LedgerOption {
	return func(s *ledgerService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, participantRepo portsrepo.ParticipantReader, options ...LedgerOption) portssvc.LedgerSvcFacade {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")

	svc := &ledgerService{
		ledgerRepo:      ledgerRepo,
		participantRepo: participantRepo,
		auditor:         audit.NopPublisher{},
		validate:        v,
		locks:           newKeyedMutex(),
		defaultCurrency: "ILS",
		maxRetries:      3,
		pageSize:        defaultHistoryPageSize,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) RecordExpense(ctx context.Context, groupID string, req dto.RecordExpenseRequest, callerID string) (*domain.ExpenseEvent, error) {
	logger := s.GetLogger(ctx).With(slog.String("group_id", groupID))

	if err := s.validateRequest(groupID, req); err != nil {
		return nil, err
	}
	occurredAt, err := s.normalizeOccurredAt(req.OccurredAt)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(groupID)
	defer unlock()

	currency, err := s.groupCurrency(ctx, groupID, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if err := s.checkAmount(req.TotalAmount, currency); err != nil {
		return nil, err
	}

	split := req.Split.ToDomain()
	shares, err := domain.ResolveShares(req.TotalAmount, currency, split)
	if err != nil {
		return nil, err
	}

	ids := append([]string{req.PayerID}, lo.Map(shares, func(sh domain.Share, _ int) string { return sh.ParticipantID })...)
	if err := s.requireParticipants(ctx, groupID, ids, true); err != nil {
		return nil, err
	}

	event := domain.ExpenseEvent{
		EventHeader:  s.newHeader(groupID, occurredAt, callerID),
		PayerID:      req.PayerID,
		TotalAmount:  req.TotalAmount,
		CurrencyCode: currency,
		SplitMode:    split.Mode,
		Shares:       shares,
		Memo:         strings.TrimSpace(req.Memo),
		SourceRef:    req.SourceRef,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.append(ctx, domain.NewExpenseEntry(event))
	if err != nil {
		return nil, err
	}
	logger.Info("Expense recorded",
		slog.Int64("sequence", saved.Expense.Sequence),
		slog.String("payer_id", event.PayerID),
		slog.String("amount", event.TotalAmount.String()),
		slog.Int("beneficiaries", len(shares)))
	return saved.Expense, nil
}

func (s *ledgerService) RecordSettlement(ctx context.Context, groupID string, req dto.RecordSettlementRequest, callerID string) (*domain.SettlementEvent, error) {
	logger := s.GetLogger(ctx).With(slog.String("group_id", groupID))

	if err := s.validateRequest(groupID, req); err != nil {
		return nil, err
	}
	occurredAt, err := s.normalizeOccurredAt(req.OccurredAt)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(groupID)
	defer unlock()

	currency, err := s.groupCurrency(ctx, groupID, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if err := s.checkAmount(req.Amount, currency); err != nil {
		return nil, err
	}
	// Inactive participants may still clear old debts.
	if err := s.requireParticipants(ctx, groupID, []string{req.PayerID, req.PayeeID}, false); err != nil {
		return nil, err
	}

	event := domain.SettlementEvent{
		EventHeader:  s.newHeader(groupID, occurredAt, callerID),
		PayerID:      req.PayerID,
		PayeeID:      req.PayeeID,
		Amount:       req.Amount,
		CurrencyCode: currency,
		Memo:         strings.TrimSpace(req.Memo),
	}

	saved, err := s.append(ctx, domain.NewSettlementEntry(event))
	if err != nil {
		return nil, err
	}
	logger.Info("Settlement recorded",
		slog.Int64("sequence", saved.Settlement.Sequence),
		slog.String("payer_id", event.PayerID),
		slog.String("payee_id", event.PayeeID),
		slog.String("amount", event.Amount.String()))
	return saved.Settlement, nil
}

func (s *ledgerService) ReverseEntry(ctx context.Context, groupID string, sequence int64, req dto.ReverseEntryRequest, callerID string) (*domain.ReversalEvent, error) {
	if err := s.validateRequest(groupID, req); err != nil {
		return nil, err
	}
	if sequence <= 0 {
		return nil, fmt.Errorf("%w: sequence must be positive", apperrors.ErrValidation)
	}

	unlock := s.locks.Lock(groupID)
	defer unlock()

	target, err := s.ledgerRepo.FindEntry(ctx, groupID, sequence)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load entry to reverse", slog.String("group_id", groupID), slog.Int64("sequence", sequence))
		}
		return nil, err
	}
	if target.Kind == domain.EntryReversal {
		return nil, fmt.Errorf("%w: entry %d is itself a reversal", apperrors.ErrValidation, sequence)
	}

	targetAt := target.Header().OccurredAt
	var occurredAt time.Time
	if req.OccurredAt.IsZero() {
		occurredAt = s.Now()
		if occurredAt.Before(targetAt) {
			occurredAt = targetAt
		}
	} else {
		if occurredAt, err = s.normalizeOccurredAt(req.OccurredAt); err != nil {
			return nil, err
		}
		if occurredAt.Before(targetAt) {
			return nil, fmt.Errorf("%w: reversal cannot occur before entry %d", apperrors.ErrValidation, sequence)
		}
	}

	event := domain.ReversalEvent{
		EventHeader:      s.newHeader(groupID, occurredAt, callerID),
		ReversedSequence: sequence,
		Reason:           strings.TrimSpace(req.Reason),
	}
	saved, err := s.append(ctx, domain.NewReversalEntry(event))
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Entry reversed",
		slog.String("group_id", groupID),
		slog.Int64("sequence", saved.Reversal.Sequence),
		slog.Int64("reversed_sequence", sequence))
	return saved.Reversal, nil
}

func (s *ledgerService) History(ctx context.Context, groupID string, since, until time.Time) iter.Seq2[domain.LedgerEntry, error] {
	return func(yield func(domain.LedgerEntry, error) bool) {
		group, err := s.ledgerRepo.FindGroup(ctx, groupID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return
		}
		if err != nil {
			yield(domain.LedgerEntry{}, err)
			return
		}

		// Entries appended after this point are not part of this iteration.
		filter := portsrepo.EntryFilter{Since: since, Until: until, MaxSequence: group.HeadSequence}
		var token *string
		for {
			if err := ctx.Err(); err != nil {
				yield(domain.LedgerEntry{}, err)
				return
			}
			page, next, err := s.ledgerRepo.ListEntries(ctx, groupID, filter, s.pageSize, token)
			if err != nil {
				yield(domain.LedgerEntry{}, err)
				return
			}
			for _, e := range page {
				if !yield(e, nil) {
					return
				}
			}
			if next == nil {
				return
			}
			token = next
		}
	}
}

func (s *ledgerService) ListEntries(ctx context.Context, groupID string, params dto.ListEntriesParams) ([]domain.LedgerEntry, *string, error) {
	if params.Limit <= 0 {
		params.Limit = defaultListLimit
	}
	if err := s.validateRequest(groupID, params); err != nil {
		return nil, nil, err
	}
	if !params.Since.IsZero() && !params.Until.IsZero() && params.Until.Before(params.Since) {
		return nil, nil, fmt.Errorf("%w: until is before since", apperrors.ErrValidation)
	}

	filter := portsrepo.EntryFilter{Since: params.Since.UTC(), Until: params.Until.UTC()}
	entries, next, err := s.ledgerRepo.ListEntries(ctx, groupID, filter, params.Limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list ledger entries", slog.String("group_id", groupID))
		}
		return nil, nil, err
	}
	return entries, next, nil
}

func (s *ledgerService) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	return s.ledgerRepo.FindGroup(ctx, groupID)
}

func (s *ledgerService) validateRequest(groupID string, req any) error {
	if err := domain.ValidateID("group", groupID); err != nil {
		return err
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

// normalizeOccurredAt defaults a zero time to now and truncates to the stored precision.
func (s *ledgerService) normalizeOccurredAt(t time.Time) (time.Time, error) {
	if t.IsZero() {
		return s.Now(), nil
	}
	if err := domain.CheckOccurredAt(t); err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(time.Microsecond), nil
}

func (s *ledgerService) newHeader(groupID string, occurredAt time.Time, callerID string) domain.EventHeader {
	return domain.EventHeader{
		EventID:    uuid.NewString(),
		GroupID:    groupID,
		OccurredAt: occurredAt,
		RecordedAt: s.Now(),
		RecordedBy: callerID,
	}
}

// groupCurrency returns the currency the next entry must use. The repository
// re-checks it inside the append transaction.
func (s *ledgerService) groupCurrency(ctx context.Context, groupID, requested string) (string, error) {
	requested = domain.NormalizeCurrencyCode(requested)

	group, err := s.ledgerRepo.FindGroup(ctx, groupID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to load group ledger", slog.String("group_id", groupID))
		return "", err
	}
	if group == nil || group.CurrencyCode == "" {
		if requested == "" {
			return s.defaultCurrency, nil
		}
		return requested, nil
	}
	if requested != "" && requested != group.CurrencyCode {
		return "", fmt.Errorf("%w: group uses %s, got %s", apperrors.ErrCurrencyMismatch, group.CurrencyCode, requested)
	}
	return group.CurrencyCode, nil
}

func (s *ledgerService) checkAmount(amount decimal.Decimal, currency string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, amount)
	}
	if s.maxAmount.IsPositive() && amount.GreaterThan(s.maxAmount) {
		return fmt.Errorf("%w: amount %s exceeds the limit of %s", apperrors.ErrInvalidAmount, amount, s.maxAmount)
	}
	if _, ok := domain.ToMinorUnits(amount, currency); !ok {
		return fmt.Errorf("%w: %s has more precision than %s allows", apperrors.ErrInvalidAmount, amount, currency)
	}
	return nil
}

// requireParticipants checks that every id is registered in the group and, if activeOnly, active.
func (s *ledgerService) requireParticipants(ctx context.Context, groupID string, ids []string, activeOnly bool) error {
	ids = lo.Uniq(ids)
	for _, id := range ids {
		if err := domain.ValidateID("participant", id); err != nil {
			return err
		}
	}
	found, err := s.participantRepo.FindParticipantsByIDs(ctx, groupID, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve participants", slog.String("group_id", groupID))
		return err
	}
	for _, id := range ids {
		p, ok := found[id]
		if !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrUnknownParticipant, id)
		}
		if activeOnly && !p.IsActive {
			return fmt.Errorf("%w: participant %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return nil
}

// append persists the entry, retrying lost write races up to maxRetries times.
func (s *ledgerService) append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	groupID := entry.Header().GroupID
	for attempt := 0; ; attempt++ {
		saved, err := s.ledgerRepo.AppendEntry(ctx, entry)
		if err == nil {
			s.auditor.Publish(audit.NewEntryEvent(saved))
			return saved, nil
		}
		if !errors.Is(err, apperrors.ErrConcurrentModification) || attempt >= s.maxRetries {
			if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrAlreadyReversed) {
				s.LogError(ctx, err, "Failed to append ledger entry", slog.String("group_id", groupID), slog.Int("attempt", attempt+1))
			}
			return domain.LedgerEntry{}, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.LedgerEntry{}, ctxErr
		}
		s.LogDebug(ctx, "Ledger append conflicted, retrying", slog.String("group_id", groupID), slog.Int("attempt", attempt+1))
	}
}
