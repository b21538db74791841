package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnitExponents lists ISO 4217 currencies whose minor unit is not 1/100.
var minorUnitExponents = map[string]int32{
	"BHD": 3,
	"CLP": 0,
	"ISK": 0,
	"JPY": 0,
	"KRW": 0,
	"KWD": 3,
	"OMR": 3,
	"TND": 3,
	"VND": 0,
}

const defaultMinorUnitExponent int32 = 2

// NormalizeCurrencyCode upper-cases and trims a currency code.
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// MinorUnitExponent returns the number of decimal places of the currency's minor unit.
func MinorUnitExponent(currencyCode string) int32 {
	if exp, ok := minorUnitExponents[NormalizeCurrencyCode(currencyCode)]; ok {
		return exp
	}
	return defaultMinorUnitExponent
}

// ToMinorUnits converts an amount into an integer count of minor units.
// ok is false when the amount carries more precision than the currency allows.
func ToMinorUnits(amount decimal.Decimal, currencyCode string) (units int64, ok bool) {
	shifted := amount.Shift(MinorUnitExponent(currencyCode))
	if !shifted.IsInteger() {
		return 0, false
	}
	return shifted.IntPart(), true
}

// FromMinorUnits converts an integer count of minor units back into an amount.
func FromMinorUnits(units int64, currencyCode string) decimal.Decimal {
	return decimal.New(units, -MinorUnitExponent(currencyCode))
}

// FormatAmount renders an amount for display: whole amounts without decimals,
// everything else with the currency's precision.
// Example: 90 ILS -> "90", 33.5 ILS -> "33.50", 1200 JPY -> "1200".
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	if amount.IsInteger() {
		return amount.StringFixed(0)
	}
	return amount.StringFixed(MinorUnitExponent(currencyCode))
}
