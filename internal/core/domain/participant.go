package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/SscSPs/group_ledger/internal/apperrors"
)

// Participant is a member of a group ledger. Participants are never deleted,
// only deactivated, so historical entries always resolve.
type Participant struct {
	GroupID       string `json:"groupID"`
	ParticipantID string `json:"participantID"` // Stable, opaque, unique within the group
	DisplayName   string `json:"displayName"`
	MentionOptOut bool   `json:"mentionOptOut"` // Must not be referenced by direct mention
	IsActive      bool   `json:"isActive"`
	AuditFields
}

// Label returns the name to show for the participant, falling back to an
// @-mention of the identifier when no display name is known. Participants
// who opted out of mentions get the bare identifier instead.
func (p Participant) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.MentionOptOut {
		return p.ParticipantID
	}
	return "@" + p.ParticipantID
}

// MaxIDLength bounds group and participant identifiers.
const MaxIDLength = 128

// ValidateID checks a group or participant identifier. Identifiers are opaque
// but must be non-blank, at most MaxIDLength bytes and free of control characters.
func ValidateID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s ID is required", apperrors.ErrValidation, kind)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: %s ID is longer than %d bytes", apperrors.ErrValidation, kind, MaxIDLength)
	}
	if strings.IndexFunc(id, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: %s ID %q contains control characters", apperrors.ErrValidation, kind, id)
	}
	return nil
}
