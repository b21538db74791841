package services_test

import (
	"context"

	"github.com/SscSPs/group_ledger/internal/audit"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// MockParticipantRepository is a mock type for the ParticipantRepositoryFacade interface
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) FindParticipant(ctx context.Context, groupID, participantID string) (*domain.Participant, error) {
	args := m.Called(ctx, groupID, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *MockParticipantRepository) FindParticipantsByIDs(ctx context.Context, groupID string, ids []string) (map[string]domain.Participant, error) {
	args := m.Called(ctx, groupID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Participant), args.Error(1)
}

func (m *MockParticipantRepository) ListParticipants(ctx context.Context, groupID string, includeInactive bool) ([]domain.Participant, error) {
	args := m.Called(ctx, groupID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Participant), args.Error(1)
}

func (m *MockParticipantRepository) SaveParticipant(ctx context.Context, participant domain.Participant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockLedgerRepository) FindEntry(ctx context.Context, groupID string, sequence int64) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, groupID, sequence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, groupID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, groupID, filter, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), next, args.Error(2)
}

// AppendEntry accepts either a fixed entry or a func deriving the stored entry from the input.
func (m *MockLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	args := m.Called(ctx, entry)
	if fn, ok := args.Get(0).(func(domain.LedgerEntry) domain.LedgerEntry); ok {
		return fn(entry), args.Error(1)
	}
	return args.Get(0).(domain.LedgerEntry), args.Error(1)
}

// assignSequence stores an entry as the given sequence number.
func assignSequence(seq int64) func(domain.LedgerEntry) domain.LedgerEntry {
	return func(e domain.LedgerEntry) domain.LedgerEntry { return e.WithSequence(seq) }
}

// recordingPublisher captures audit events synchronously.
type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(e audit.Event) {
	p.types = append(p.types, e.Type)
}
