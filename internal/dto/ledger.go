package dto

import (
	"time"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitRequest describes how an expense is divided. Mode defaults to EQUAL.
type SplitRequest struct {
	Mode          domain.SplitMode           `json:"mode" binding:"omitempty,oneof=EQUAL EXACT WEIGHTED"`
	Beneficiaries []string                   `json:"beneficiaries" binding:"omitempty,dive,required,max=128"`
	Amounts       map[string]decimal.Decimal `json:"amounts"`
	Weights       map[string]int64           `json:"weights" binding:"omitempty,dive,keys,required,max=128,endkeys,min=1,max=1000000"`
}

// ToDomain converts the request into a domain.Split.
func (r SplitRequest) ToDomain() domain.Split {
	mode := r.Mode
	if mode == "" {
		mode = domain.SplitEqual
	}
	return domain.Split{Mode: mode, Beneficiaries: r.Beneficiaries, Amounts: r.Amounts, Weights: r.Weights}
}

// RecordExpenseRequest records that PayerID paid TotalAmount for the split's beneficiaries.
// An empty CurrencyCode means the group currency. A zero OccurredAt means now.
type RecordExpenseRequest struct {
	PayerID      string          `json:"payerID" binding:"required,max=128"`
	TotalAmount  decimal.Decimal `json:"totalAmount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,iso4217"`
	Split        SplitRequest    `json:"split"`
	Memo         string          `json:"memo" binding:"max=512"`
	SourceRef    string          `json:"sourceRef" binding:"max=256"`
	OccurredAt   time.Time       `json:"occurredAt"`
}

// RecordExtractedExpenseRequest is an expense as extracted from a chat message.
// Everyone splits among the active participants; otherwise Beneficiaries are the
// mentioned participants and the payer is always added to them.
type RecordExtractedExpenseRequest struct {
	PayerID       string          `json:"payerID" binding:"required,max=128"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode  string          `json:"currencyCode" binding:"omitempty,iso4217"`
	Everyone      bool            `json:"everyone"`
	Beneficiaries []string        `json:"beneficiaries" binding:"omitempty,dive,required,max=128"`
	Memo          string          `json:"memo" binding:"max=512"`
	SourceRef     string          `json:"sourceRef" binding:"max=256"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// RecordSettlementRequest records a real-world payment from PayerID to PayeeID.
type RecordSettlementRequest struct {
	PayerID      string          `json:"payerID" binding:"required,max=128"`
	PayeeID      string          `json:"payeeID" binding:"required,max=128,nefield=PayerID"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,iso4217"`
	Memo         string          `json:"memo" binding:"max=512"`
	OccurredAt   time.Time       `json:"occurredAt"`
}

// ReverseEntryRequest cancels the effect of an earlier entry.
type ReverseEntryRequest struct {
	Reason     string    `json:"reason" binding:"max=512"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ListEntriesParams defines query parameters for paging through a group's history.
type ListEntriesParams struct {
	Since     time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until     time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit     int       `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken *string   `form:"nextToken"`
}

// ShareResponse is one beneficiary's portion of an expense.
type ShareResponse struct {
	ParticipantID string          `json:"participantID"`
	Amount        decimal.Decimal `json:"amount"`
}

// LedgerEntryResponse is a flattened view of any ledger entry kind.
type LedgerEntryResponse struct {
	Kind             domain.EntryKind `json:"kind"`
	EventID          string           `json:"eventID"`
	GroupID          string           `json:"groupID"`
	Sequence         int64            `json:"sequence"`
	OccurredAt       time.Time        `json:"occurredAt"`
	RecordedAt       time.Time        `json:"recordedAt"`
	RecordedBy       string           `json:"recordedBy"`
	PayerID          string           `json:"payerID,omitempty"`
	PayeeID          string           `json:"payeeID,omitempty"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	CurrencyCode     string           `json:"currencyCode,omitempty"`
	SplitMode        domain.SplitMode `json:"splitMode,omitempty"`
	Shares           []ShareResponse  `json:"shares,omitempty"`
	Memo             string           `json:"memo,omitempty"`
	SourceRef        string           `json:"sourceRef,omitempty"`
	ReversedSequence int64            `json:"reversedSequence,omitempty"`
	Reason           string           `json:"reason,omitempty"`
}

// ListEntriesResponse is one page of ledger history.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse DTO.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	h := e.Header()
	resp := LedgerEntryResponse{
		Kind:       e.Kind,
		EventID:    h.EventID,
		GroupID:    h.GroupID,
		Sequence:   h.Sequence,
		OccurredAt: h.OccurredAt,
		RecordedAt: h.RecordedAt,
		RecordedBy: h.RecordedBy,
	}
	switch e.Kind {
	case domain.EntryExpense:
		x := e.Expense
		resp.PayerID = x.PayerID
		resp.Amount = &x.TotalAmount
		resp.CurrencyCode = x.CurrencyCode
		resp.SplitMode = x.SplitMode
		resp.Memo = x.Memo
		resp.SourceRef = x.SourceRef
		resp.Shares = make([]ShareResponse, len(x.Shares))
		for i, s := range x.Shares {
			resp.Shares[i] = ShareResponse{ParticipantID: s.ParticipantID, Amount: s.Amount}
		}
	case domain.EntrySettlement:
		x := e.Settlement
		resp.PayerID = x.PayerID
		resp.PayeeID = x.PayeeID
		resp.Amount = &x.Amount
		resp.CurrencyCode = x.CurrencyCode
		resp.Memo = x.Memo
	case domain.EntryReversal:
		resp.ReversedSequence = e.Reversal.ReversedSequence
		resp.Reason = e.Reversal.Reason
	}
	return resp
}

// ToListEntriesResponse converts a page of entries.
func ToListEntriesResponse(entries []domain.LedgerEntry, nextToken *string) ListEntriesResponse {
	list := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		list[i] = ToLedgerEntryResponse(e)
	}
	return ListEntriesResponse{Entries: list, NextToken: nextToken}
}
