package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerGroup is the header row of a group ledger.
type LedgerGroup struct {
	GroupID      string `json:"groupID" db:"group_id"`
	CurrencyCode string `json:"currencyCode" db:"currency_code"`
	HeadSequence int64  `json:"headSequence" db:"head_sequence"`
	AuditFields
}

// LedgerEntry is one row of the append-only ledger. Columns that do not apply
// to the entry kind are left at their zero value (NULL in Postgres).
type LedgerEntry struct {
	GroupID          string          `json:"groupID" db:"group_id"`
	Sequence         int64           `json:"sequence" db:"sequence"`
	EventID          string          `json:"eventID" db:"event_id"`
	Kind             string          `json:"kind" db:"kind"`
	OccurredAt       time.Time       `json:"occurredAt" db:"occurred_at"`
	RecordedAt       time.Time       `json:"recordedAt" db:"recorded_at"`
	RecordedBy       string          `json:"recordedBy" db:"recorded_by"`
	PayerID          *string         `json:"payerID,omitempty" db:"payer_id"`
	PayeeID          *string         `json:"payeeID,omitempty" db:"payee_id"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	CurrencyCode     string          `json:"currencyCode" db:"currency_code"`
	SplitMode        *string         `json:"splitMode,omitempty" db:"split_mode"`
	Memo             string          `json:"memo" db:"memo"`
	SourceRef        string          `json:"sourceRef" db:"source_ref"`
	ReversedSequence *int64          `json:"reversedSequence,omitempty" db:"reversed_sequence"`
	Reason           string          `json:"reason" db:"reason"`
	Shares           []ExpenseShare  `json:"shares,omitempty" db:"-"` // Stored in ledger_expense_shares
}

// ExpenseShare is one beneficiary line of an expense entry.
type ExpenseShare struct {
	GroupID       string          `json:"-" db:"group_id"`
	Sequence      int64           `json:"-" db:"sequence"`
	ParticipantID string          `json:"participantID" db:"participant_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
}
