package mapping

import (
	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/SscSPs/group_ledger/internal/models"
	"github.com/samber/lo"
)

// ToModelParticipant converts a domain Participant to a model Participant
func ToModelParticipant(d domain.Participant) models.Participant {
	return models.Participant{
		GroupID:       d.GroupID,
		ParticipantID: d.ParticipantID,
		DisplayName:   d.DisplayName,
		MentionOptOut: d.MentionOptOut,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainParticipant converts a model Participant to a domain Participant
func ToDomainParticipant(m models.Participant) domain.Participant {
	return domain.Participant{
		GroupID:       m.GroupID,
		ParticipantID: m.ParticipantID,
		DisplayName:   m.DisplayName,
		MentionOptOut: m.MentionOptOut,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainParticipantSlice converts a slice of model Participants to a slice of domain Participants
func ToDomainParticipantSlice(ms []models.Participant) []domain.Participant {
	return lo.Map(ms, func(m models.Participant, _ int) domain.Participant {
		return ToDomainParticipant(m)
	})
}
