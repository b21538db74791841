package utils

import (
	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatSignedAmount formats a balance with an explicit sign for positive values.
// Example: 60 ILS returns "+60", -33.5 ILS returns "-33.50", 0 returns "0"
func FormatSignedAmount(amount decimal.Decimal, currencyCode string) string {
	s := domain.FormatAmount(amount, currencyCode)
	if amount.IsPositive() {
		return "+" + s
	}
	return s
}

// FormatWithCurrency appends the currency code to a formatted amount.
// Example: 90 ILS returns "90 ILS"
func FormatWithCurrency(amount decimal.Decimal, currencyCode string) string {
	return domain.FormatAmount(amount, currencyCode) + " " + currencyCode
}
