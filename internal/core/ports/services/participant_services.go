package services

import (
	"context"

	"github.com/SscSPs/group_ledger/internal/core/domain"
)

// ParticipantReaderSvc defines read operations for participant data
type ParticipantReaderSvc interface {
	// Resolve returns the participant or apperrors.ErrNotFound.
	Resolve(ctx context.Context, groupID, participantID string) (*domain.Participant, error)

	// List returns the group's participants, ordered by participant ID.
	List(ctx context.Context, groupID string, includeInactive bool) ([]domain.Participant, error)

	// LookupNames returns the known participants among ids for display purposes.
	LookupNames(ctx context.Context, groupID string, ids []string) (map[string]domain.Participant, error)
}

// ParticipantWriterSvc defines write operations for participant data
type ParticipantWriterSvc interface {
	// Register is idempotent: re-registering updates the display name only and reactivates the participant.
	Register(ctx context.Context, groupID, participantID, displayName, callerID string) (*domain.Participant, error)

	// SetOptOut records whether the participant may be referenced by direct mention.
	SetOptOut(ctx context.Context, groupID, participantID string, optOut bool, callerID string) (*domain.Participant, error)

	// Deactivate soft-deletes the participant. Historical entries still resolve.
	Deactivate(ctx context.Context, groupID, participantID, callerID string) error
}

// ParticipantSvcFacade combines all participant-related service interfaces
type ParticipantSvcFacade interface {
	ParticipantReaderSvc
	ParticipantWriterSvc
}
