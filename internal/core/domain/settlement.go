package domain

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// SuggestedTransfer is an advisory payment that moves From and To toward zero.
type SuggestedTransfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type position struct {
	participantID string
	amount        decimal.Decimal // Always positive
}

// byLargest orders positions by descending amount, then ascending participant ID.
func byLargest(a, b position) int {
	if c := b.amount.Cmp(a.amount); c != 0 {
		return c
	}
	return strings.Compare(a.participantID, b.participantID)
}

// SuggestSettlements returns payments that bring every balance in the snapshot
// to zero. It repeatedly matches the largest debtor with the largest creditor
// and transfers the smaller of the two amounts, so each step zeroes at least
// one participant and the result has at most n-1 transfers.
//
// It returns an empty slice for a settled snapshot and never touches the ledger.
func SuggestSettlements(snapshot BalanceSnapshot) []SuggestedTransfer {
	var debtors, creditors []position
	for id, b := range snapshot.Balances {
		switch {
		case b.IsNegative():
			debtors = append(debtors, position{participantID: id, amount: b.Neg()})
		case b.IsPositive():
			creditors = append(creditors, position{participantID: id, amount: b})
		}
	}

	transfers := []SuggestedTransfer{}
	for len(debtors) > 0 && len(creditors) > 0 {
		slices.SortFunc(debtors, byLargest)
		slices.SortFunc(creditors, byLargest)

		debtor, creditor := &debtors[0], &creditors[0]
		amount := decimal.Min(debtor.amount, creditor.amount)
		transfers = append(transfers, SuggestedTransfer{
			From:   debtor.participantID,
			To:     creditor.participantID,
			Amount: amount,
		})

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)
		if debtor.amount.IsZero() {
			debtors = debtors[1:]
		}
		if creditor.amount.IsZero() {
			creditors = creditors[1:]
		}
	}
	return transfers
}
