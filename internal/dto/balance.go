package dto

import (
	"time"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GetBalancesParams defines query parameters for computing balances. A zero AsOf means now.
type GetBalancesParams struct {
	AsOf time.Time `form:"asOf" time_format:"2006-01-02T15:04:05Z07:00"`
}

// BalanceLine is one participant's net position.
type BalanceLine struct {
	ParticipantID string          `json:"participantID"`
	Label         string          `json:"label"`
	Balance       decimal.Decimal `json:"balance"`
	Formatted     string          `json:"formatted"` // e.g. "+60" or "-33.50"
}

// BalancesResponse is a derived balance snapshot.
type BalancesResponse struct {
	GroupID      string        `json:"groupID"`
	AsOf         time.Time     `json:"asOf"`
	CurrencyCode string        `json:"currencyCode"`
	HeadSequence int64         `json:"headSequence"`
	Settled      bool          `json:"settled"`
	Balances     []BalanceLine `json:"balances"`
}

// TransferResponse is one suggested payment.
type TransferResponse struct {
	From      string          `json:"from"`
	FromLabel string          `json:"fromLabel"`
	To        string          `json:"to"`
	ToLabel   string          `json:"toLabel"`
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

// SettlementSuggestionsResponse lists advisory payments that would settle the group.
type SettlementSuggestionsResponse struct {
	GroupID      string             `json:"groupID"`
	AsOf         time.Time          `json:"asOf"`
	CurrencyCode string             `json:"currencyCode"`
	Transfers    []TransferResponse `json:"transfers"`
}

// SummaryResponse aggregates a group's ledger.
type SummaryResponse struct {
	GroupID          string          `json:"groupID"`
	CurrencyCode     string          `json:"currencyCode"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	TotalSettlements decimal.Decimal `json:"totalSettlements"`
	EntryCount       int             `json:"entryCount"`
	ReversedCount    int             `json:"reversedCount"`
	Participants     int             `json:"participants"`
	HeadSequence     int64           `json:"headSequence"`
}

// QueryKind selects which read a structured query runs.
type QueryKind string

const (
	QueryBalance    QueryKind = "balance"
	QuerySettlement QueryKind = "settlement"
	QueryHistory    QueryKind = "history"
	QuerySummary    QueryKind = "summary"
)

// StructuredQueryRequest is a classified read request from the chat assistant.
type StructuredQueryRequest struct {
	Kind  QueryKind `json:"kind" binding:"required,oneof=balance settlement history summary"`
	Since time.Time `json:"since"`
	Until time.Time `json:"until"` // Also the as-of time for balance and settlement queries
	Limit int       `json:"limit" binding:"omitempty,min=1,max=500"`
}

// StructuredQueryResponse carries exactly the section matching Kind.
type StructuredQueryResponse struct {
	Kind        QueryKind                      `json:"kind"`
	Balances    *BalancesResponse              `json:"balances,omitempty"`
	Settlements *SettlementSuggestionsResponse `json:"settlements,omitempty"`
	History     *ListEntriesResponse           `json:"history,omitempty"`
	Summary     *SummaryResponse               `json:"summary,omitempty"`
}

// ToBalancesResponse converts a snapshot. Participants are listed in ascending ID order
// and labelled from names, which may be missing for unknown IDs.
func ToBalancesResponse(snap *domain.BalanceSnapshot, names map[string]domain.Participant, format func(decimal.Decimal, string) string) BalancesResponse {
	lines := make([]BalanceLine, 0, len(snap.Balances))
	for _, id := range snap.ParticipantIDs() {
		b := snap.Balances[id]
		lines = append(lines, BalanceLine{
			ParticipantID: id,
			Label:         labelOf(names, id),
			Balance:       b,
			Formatted:     format(b, snap.CurrencyCode),
		})
	}
	return BalancesResponse{
		GroupID:      snap.GroupID,
		AsOf:         snap.AsOf,
		CurrencyCode: snap.CurrencyCode,
		HeadSequence: snap.HeadSequence,
		Settled:      snap.IsSettled(),
		Balances:     lines,
	}
}

// ToSettlementSuggestionsResponse converts suggested transfers for a snapshot.
func ToSettlementSuggestionsResponse(snap *domain.BalanceSnapshot, transfers []domain.SuggestedTransfer, names map[string]domain.Participant) SettlementSuggestionsResponse {
	list := make([]TransferResponse, len(transfers))
	for i, t := range transfers {
		list[i] = TransferResponse{
			From:      t.From,
			FromLabel: labelOf(names, t.From),
			To:        t.To,
			ToLabel:   labelOf(names, t.To),
			Amount:    t.Amount,
			Formatted: domain.FormatAmount(t.Amount, snap.CurrencyCode),
		}
	}
	return SettlementSuggestionsResponse{
		GroupID:      snap.GroupID,
		AsOf:         snap.AsOf,
		CurrencyCode: snap.CurrencyCode,
		Transfers:    list,
	}
}

func labelOf(names map[string]domain.Participant, id string) string {
	if p, ok := names[id]; ok {
		return p.Label()
	}
	return domain.Participant{ParticipantID: id}.Label()
}
