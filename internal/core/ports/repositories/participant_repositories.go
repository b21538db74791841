package repositories

import (
	"context"

	"github.com/SscSPs/group_ledger/internal/core/domain"
)

// ParticipantReader defines read operations for participant data
type ParticipantReader interface {
	// FindParticipant returns apperrors.ErrNotFound when the participant is not registered in the group.
	FindParticipant(ctx context.Context, groupID, participantID string) (*domain.Participant, error)

	// FindParticipantsByIDs returns the registered participants among ids, keyed by participant ID.
	// Missing IDs are simply absent from the map.
	FindParticipantsByIDs(ctx context.Context, groupID string, ids []string) (map[string]domain.Participant, error)

	// ListParticipants returns the group's participants ordered by participant ID.
	ListParticipants(ctx context.Context, groupID string, includeInactive bool) ([]domain.Participant, error)
}

// ParticipantWriter defines write operations for participant data
type ParticipantWriter interface {
	// SaveParticipant inserts or fully replaces the participant row.
	SaveParticipant(ctx context.Context, participant domain.Participant) error
}

// ParticipantRepositoryFacade combines all participant-related repository interfaces
type ParticipantRepositoryFacade interface {
	ParticipantReader
	ParticipantWriter
}
