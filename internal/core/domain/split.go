package domain

import (
	"fmt"
	"slices"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// SplitMode selects how an expense total is divided among its beneficiaries.
type SplitMode string

const (
	SplitEqual    SplitMode = "EQUAL"
	SplitExact    SplitMode = "EXACT"
	SplitWeighted SplitMode = "WEIGHTED"
)

// Split describes the beneficiaries of an expense. Only the field matching
// Mode is consulted.
type Split struct {
	Mode          SplitMode                  `json:"mode"`
	Beneficiaries []string                   `json:"beneficiaries,omitempty"` // SplitEqual
	Amounts       map[string]decimal.Decimal `json:"amounts,omitempty"`       // SplitExact
	Weights       map[string]int64           `json:"weights,omitempty"`       // SplitWeighted
}

// ParticipantIDs returns the beneficiary IDs in ascending order.
func (s Split) ParticipantIDs() []string {
	var ids []string
	switch s.Mode {
	case SplitEqual:
		ids = slices.Clone(s.Beneficiaries)
	case SplitExact:
		for id := range s.Amounts {
			ids = append(ids, id)
		}
	case SplitWeighted:
		for id := range s.Weights {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// MaxSplitWeight bounds a single weight in a weighted split.
const MaxSplitWeight = 1_000_000

// ResolveShares turns a split into per-beneficiary amounts that sum exactly to
// total. Shares are returned sorted by participant ID.
//
// Equal and weighted splits allocate floor(total * w / sum(w)) minor units to
// each beneficiary; any leftover minor units go one each to beneficiaries in
// ascending participant-ID order, so the result is reproducible.
func ResolveShares(total decimal.Decimal, currencyCode string, split Split) ([]Share, error) {
	ids := split.ParticipantIDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one beneficiary is required", apperrors.ErrValidation)
	}
	for i, id := range ids {
		if err := ValidateID("beneficiary", id); err != nil {
			return nil, err
		}
		if i > 0 && ids[i-1] == id {
			return nil, fmt.Errorf("%w: beneficiary %s listed more than once", apperrors.ErrValidation, id)
		}
	}

	totalUnits, ok := ToMinorUnits(total, currencyCode)
	if !ok {
		return nil, fmt.Errorf("%w: %s has more precision than %s allows", apperrors.ErrInvalidAmount, total, currencyCode)
	}

	switch split.Mode {
	case SplitExact:
		return exactShares(total, currencyCode, ids, split.Amounts)
	case SplitEqual:
		weights := make([]int64, len(ids))
		for i := range weights {
			weights[i] = 1
		}
		return allocateShares(totalUnits, currencyCode, ids, weights), nil
	case SplitWeighted:
		weights := make([]int64, len(ids))
		for i, id := range ids {
			w := split.Weights[id]
			if w <= 0 || w > MaxSplitWeight {
				return nil, fmt.Errorf("%w: weight for %s must be between 1 and %d", apperrors.ErrValidation, id, MaxSplitWeight)
			}
			weights[i] = w
		}
		return allocateShares(totalUnits, currencyCode, ids, weights), nil
	default:
		return nil, fmt.Errorf("%w: unsupported split mode %q", apperrors.ErrValidation, split.Mode)
	}
}

func exactShares(total decimal.Decimal, currencyCode string, ids []string, amounts map[string]decimal.Decimal) ([]Share, error) {
	shares := make([]Share, 0, len(ids))
	sum := decimal.Zero
	for _, id := range ids {
		amount := amounts[id]
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: share for %s cannot be negative", apperrors.ErrInvalidAmount, id)
		}
		if _, ok := ToMinorUnits(amount, currencyCode); !ok {
			return nil, fmt.Errorf("%w: share %s for %s has more precision than %s allows", apperrors.ErrInvalidAmount, amount, id, currencyCode)
		}
		sum = sum.Add(amount)
		shares = append(shares, Share{ParticipantID: id, Amount: amount})
	}
	if !sum.Equal(total) {
		return nil, fmt.Errorf("%w: shares sum to %s, total is %s", apperrors.ErrShareMismatch, sum, total)
	}
	return shares, nil
}

// allocateShares expects ids sorted ascending and weights aligned with ids.
func allocateShares(totalUnits int64, currencyCode string, ids []string, weights []int64) []Share {
	weightSumDec := decimal.Zero
	for _, w := range weights {
		weightSumDec = weightSumDec.Add(decimal.NewFromInt(w))
	}
	totalDec := decimal.NewFromInt(totalUnits)

	units := make([]int64, len(ids))
	var assigned int64
	for i, w := range weights {
		q, _ := totalDec.Mul(decimal.NewFromInt(w)).QuoRem(weightSumDec, 0)
		units[i] = q.IntPart()
		assigned += units[i]
	}
	// Leftover is always smaller than len(ids).
	for i := 0; assigned < totalUnits; i = (i + 1) % len(ids) {
		units[i]++
		assigned++
	}

	shares := make([]Share, len(ids))
	for i, id := range ids {
		shares[i] = Share{ParticipantID: id, Amount: FromMinorUnits(units[i], currencyCode)}
	}
	return shares
}
