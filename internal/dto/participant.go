package dto

import (
	"time"

	"github.com/SscSPs/group_ledger/internal/core/domain"
)

// RegisterParticipantRequest registers a participant on first reference or refreshes its display name.
type RegisterParticipantRequest struct {
	ParticipantID string `json:"participantID" binding:"required,max=128"`
	DisplayName   string `json:"displayName" binding:"max=256"`
}

// SetOptOutRequest toggles whether a participant may be referenced by direct mention.
type SetOptOutRequest struct {
	OptOut *bool `json:"optOut" binding:"required"`
}

// ListParticipantsParams defines query parameters for listing participants.
type ListParticipantsParams struct {
	IncludeInactive bool `form:"includeInactive,default=false"`
}

// ParticipantResponse defines the data returned for a participant.
type ParticipantResponse struct {
	GroupID       string    `json:"groupID"`
	ParticipantID string    `json:"participantID"`
	DisplayName   string    `json:"displayName"`
	Label         string    `json:"label"`
	MentionOptOut bool      `json:"mentionOptOut"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ListParticipantsResponse wraps a list of participants.
type ListParticipantsResponse struct {
	Participants []ParticipantResponse `json:"participants"`
}

// ToParticipantResponse converts a domain.Participant to ParticipantResponse DTO.
func ToParticipantResponse(p *domain.Participant) ParticipantResponse {
	return ParticipantResponse{
		GroupID:       p.GroupID,
		ParticipantID: p.ParticipantID,
		DisplayName:   p.DisplayName,
		Label:         p.Label(),
		MentionOptOut: p.MentionOptOut,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
}

// ToListParticipantsResponse converts a slice of domain.Participant to ListParticipantsResponse.
func ToListParticipantsResponse(participants []domain.Participant) ListParticipantsResponse {
	list := make([]ParticipantResponse, len(participants))
	for i := range participants {
		list[i] = ToParticipantResponse(&participants[i])
	}
	return ListParticipantsResponse{Participants: list}
}
