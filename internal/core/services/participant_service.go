package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/audit"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
)

type participantService struct {
	BaseService
	repo    portsrepo.ParticipantRepositoryFacade
	auditor audit.Publisher
}

// NewParticipantService creates a new participant registry.
func NewParticipantService(repo portsrepo.ParticipantRepositoryFacade, auditor audit.Publisher) portssvc.ParticipantSvcFacade {
	if auditor == nil {
		auditor = audit.NopPublisher{}
	}
	return &participantService{repo: repo, auditor: auditor}
}

var _ portssvc.ParticipantSvcFacade = (*participantService)(nil)

func validateKeys(groupID, participantID string) error {
	if err := domain.ValidateID("group", groupID); err != nil {
		return err
	}
	return domain.ValidateID("participant", participantID)
}

func (s *participantService) Register(ctx context.Context, groupID, participantID, displayName, callerID string) (*domain.Participant, error) {
	if err := validateKeys(groupID, participantID); err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)
	now := s.Now()

	p, err := s.repo.FindParticipant(ctx, groupID, participantID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		p = &domain.Participant{
			GroupID:       groupID,
			ParticipantID: participantID,
			DisplayName:   displayName,
			IsActive:      true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     callerID,
				LastUpdatedAt: now,
				LastUpdatedBy: callerID,
			},
		}
	case err != nil:
		s.LogError(ctx, err, "Failed to look up participant", slog.String("group_id", groupID), slog.String("participant_id", participantID))
		return nil, err
	default:
		if p.IsActive && (displayName == "" || displayName == p.DisplayName) {
			return p, nil
		}
		if displayName != "" {
			p.DisplayName = displayName
		}
		p.IsActive = true
		p.LastUpdatedAt = now
		p.LastUpdatedBy = callerID
	}

	if err := s.repo.SaveParticipant(ctx, *p); err != nil {
		s.LogError(ctx, err, "Failed to save participant", slog.String("group_id", groupID), slog.String("participant_id", participantID))
		return nil, err
	}
	s.auditor.Publish(audit.NewEvent(audit.TypeParticipantChanged, groupID, callerID,
		audit.WithData("participantID", participantID), audit.WithData("action", "register")))
	s.LogInfo(ctx, "Participant registered", slog.String("group_id", groupID), slog.String("participant_id", participantID))
	return p, nil
}

func (s *participantService) SetOptOut(ctx context.Context, groupID, participantID string, optOut bool, callerID string) (*domain.Participant, error) {
	p, err := s.Resolve(ctx, groupID, participantID)
	if err != nil {
		return nil, err
	}
	if p.MentionOptOut == optOut {
		return p, nil
	}
	p.MentionOptOut = optOut
	p.LastUpdatedAt = s.Now()
	p.LastUpdatedBy = callerID
	if err := s.repo.SaveParticipant(ctx, *p); err != nil {
		s.LogError(ctx, err, "Failed to update mention opt-out", slog.String("group_id", groupID), slog.String("participant_id", participantID))
		return nil, err
	}
	s.auditor.Publish(audit.NewEvent(audit.TypeParticipantChanged, groupID, callerID,
		audit.WithData("participantID", participantID), audit.WithData("mentionOptOut", optOut)))
	return p, nil
}

func (s *participantService) Deactivate(ctx context.Context, groupID, participantID, callerID string) error {
	p, err := s.Resolve(ctx, groupID, participantID)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return nil
	}
	p.IsActive = false
	p.LastUpdatedAt = s.Now()
	p.LastUpdatedBy = callerID
	if err := s.repo.SaveParticipant(ctx, *p); err != nil {
		s.LogError(ctx, err, "Failed to deactivate participant", slog.String("group_id", groupID), slog.String("participant_id", participantID))
		return err
	}
	s.auditor.Publish(audit.NewEvent(audit.TypeParticipantChanged, groupID, callerID,
		audit.WithData("participantID", participantID), audit.WithData("action", "deactivate")))
	s.LogInfo(ctx, "Participant deactivated", slog.String("group_id", groupID), slog.String("participant_id", participantID))
	return nil
}

func (s *participantService) Resolve(ctx context.Context, groupID, participantID string) (*domain.Participant, error) {
	if err := validateKeys(groupID, participantID); err != nil {
		return nil, err
	}
	p, err := s.repo.FindParticipant(ctx, groupID, participantID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to resolve participant", slog.String("group_id", groupID), slog.String("participant_id", participantID))
		}
		return nil, err
	}
	return p, nil
}

func (s *participantService) List(ctx context.Context, groupID string, includeInactive bool) ([]domain.Participant, error) {
	participants, err := s.repo.ListParticipants(ctx, groupID, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list participants", slog.String("group_id", groupID))
		return nil, err
	}
	return participants, nil
}

func (s *participantService) LookupNames(ctx context.Context, groupID string, ids []string) (map[string]domain.Participant, error) {
	if len(ids) == 0 {
		return map[string]domain.Participant{}, nil
	}
	return s.repo.FindParticipantsByIDs(ctx, groupID, ids)
}
