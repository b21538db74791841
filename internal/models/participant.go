package models

// Participant is the persisted form of a group member.
type Participant struct {
	GroupID       string `json:"groupID" db:"group_id"`
	ParticipantID string `json:"participantID" db:"participant_id"`
	DisplayName   string `json:"displayName" db:"display_name"`
	MentionOptOut bool   `json:"mentionOptOut" db:"mention_opt_out"`
	IsActive      bool   `json:"isActive" db:"is_active"`
	AuditFields
}
