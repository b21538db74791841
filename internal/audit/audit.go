// Package audit fans recorded ledger events out to secondary sinks without
// putting them on the append path.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/SscSPs/group_ledger/internal/utils"
	"github.com/google/uuid"
)

// Event types
const (
	TypeExpenseRecorded    = "expense_recorded"
	TypeSettlementRecorded = "settlement_recorded"
	TypeEntryReversed      = "entry_reversed"
	TypeParticipantChanged = "participant_changed"
)

type Event struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"eventType"`
	GroupID   string         `json:"groupID"`
	CallerID  string         `json:"callerID"`
	Data      map[string]any `json:"eventData,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type EventOption func(*Event)

func WithData(key string, value any) EventOption {
	return func(e *Event) {
		e.Data[key] = value
	}
}

func NewEvent(eventType, groupID, callerID string, opts ...EventOption) Event {
	e := Event{
		ID:        uuid.New(),
		Type:      eventType,
		GroupID:   groupID,
		CallerID:  callerID,
		Data:      make(map[string]any),
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// NewEntryEvent describes an appended ledger entry.
func NewEntryEvent(entry domain.LedgerEntry) Event {
	h := entry.Header()
	opts := []EventOption{
		WithData("sequence", h.Sequence),
		WithData("eventID", h.EventID),
		WithData("occurredAt", h.OccurredAt),
	}

	eventType := TypeExpenseRecorded
	switch entry.Kind {
	case domain.EntryExpense:
		opts = append(opts,
			WithData("payerID", entry.Expense.PayerID),
			WithData("amount", entry.Expense.TotalAmount.String()),
			WithData("currencyCode", entry.Expense.CurrencyCode),
			WithData("beneficiaries", len(entry.Expense.Shares)),
		)
	case domain.EntrySettlement:
		eventType = TypeSettlementRecorded
		opts = append(opts,
			WithData("payerID", entry.Settlement.PayerID),
			WithData("payeeID", entry.Settlement.PayeeID),
			WithData("amount", entry.Settlement.Amount.String()),
			WithData("currencyCode", entry.Settlement.CurrencyCode),
		)
	case domain.EntryReversal:
		eventType = TypeEntryReversed
		opts = append(opts, WithData("reversedSequence", entry.Reversal.ReversedSequence))
	}
	return NewEvent(eventType, h.GroupID, h.RecordedBy, opts...)
}

// Publisher accepts events for asynchronous delivery. Publish never blocks.
type Publisher interface {
	Publish(event Event)
}

// Sink stores or forwards a single event.
type Sink interface {
	Save(ctx context.Context, e Event) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

// LogSink writes events to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Save(ctx context.Context, e Event) error {
	s.Logger.InfoContext(ctx, "audit event",
		slog.String("event_id", e.ID.String()),
		slog.String("event_type", e.Type),
		slog.String("group_id", e.GroupID),
		slog.String("caller_id", e.CallerID),
		slog.Any("data", e.Data),
	)
	return nil
}

// PosthogSink forwards events to PostHog as product analytics, keyed by caller.
type PosthogSink struct {
	Client *utils.PosthogClientWrapper
}

func (s PosthogSink) Save(_ context.Context, e Event) error {
	if s.Client == nil || !s.Client.IsInitialized() {
		return nil
	}
	props := make(map[string]any, len(e.Data)+1)
	for k, v := range e.Data {
		props[k] = v
	}
	props["groupID"] = e.GroupID
	return s.Client.Enqueue(e.CallerID, "ledger_"+e.Type, props)
}

// MultiSink delivers to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Save(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Save(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
