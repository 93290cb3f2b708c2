package models

import (
	"strconv"
	"strings"

	dErrors "railhub/pkg/domain-errors"
)

// fractionDigits maps ISO 4217 currencies with non-standard minor units.
// Anything absent uses two fraction digits.
var fractionDigits = map[string]int{
	"JPY": 0,
	"KRW": 0,
	"ISK": 0,
	"BHD": 3,
	"KWD": 3,
	"OMR": 3,
	"TND": 3,
}

// FractionDigitsFor returns the number of minor-unit digits for a currency.
func FractionDigitsFor(currency string) int {
	if d, ok := fractionDigits[strings.ToUpper(currency)]; ok {
		return d
	}
	return 2
}

// ParseMinorUnits converts a decimal amount string into minor units for the
// given currency. The hub never does float arithmetic on money; this is the
// only place amount strings are interpreted.
func ParseMinorUnits(amount, currency string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, dErrors.New(dErrors.CodeValidation, "amount is required")
	}
	if strings.HasPrefix(amount, "-") {
		return 0, dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}

	digits := FractionDigitsFor(currency)
	whole, frac := amount, ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, dErrors.New(dErrors.CodeValidation, "amount is malformed")
	}
	if len(frac) > digits {
		return 0, dErrors.Newf(dErrors.CodeValidation, "amount has more than %d fraction digits for %s", digits, currency)
	}
	// Right-pad the fraction to the currency's minor unit width.
	frac += strings.Repeat("0", digits-len(frac))

	var units int64
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, dErrors.New(dErrors.CodeValidation, "amount is malformed")
		}
		d := int64(r - '0')
		if units > (1<<63-1-d)/10 {
			return 0, dErrors.New(dErrors.CodeValidation, "amount overflows")
		}
		units = units*10 + d
	}
	return units, nil
}

// FormatMinorUnits renders minor units back into a decimal string for the
// given currency.
func FormatMinorUnits(units int64, currency string) string {
	digits := FractionDigitsFor(currency)
	if digits == 0 {
		return strconv.FormatInt(units, 10)
	}
	scale := int64(1)
	for range digits {
		scale *= 10
	}
	whole := strconv.FormatInt(units/scale, 10)
	frac := strconv.FormatInt(units%scale, 10)
	for len(frac) < digits {
		frac = "0" + frac
	}
	return whole + "." + frac
}
