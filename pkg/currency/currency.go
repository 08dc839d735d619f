// Package currency defines currency codes and the registry of codes the
// ledger accepts as a base or input currency.
package currency

import (
	"sort"
	"strings"
)

// Code is an ISO 4217 currency code (3 uppercase letters).
type Code string

func (c Code) String() string { return string(c) }

// DefaultCurrency is the base currency assigned to users who do not pick one.
const DefaultCurrency Code = "SGD"

// supported is the set of currencies the service normalizes between. It mirrors
// the seeded currencies table.
var supported = map[Code]string{
	"AUD": "Australian Dollar",
	"CAD": "Canadian Dollar",
	"CHF": "Swiss Franc",
	"CNY": "Chinese Yuan",
	"EUR": "Euro",
	"GBP": "Pound Sterling",
	"HKD": "Hong Kong Dollar",
	"IDR": "Indonesian Rupiah",
	"JPY": "Japanese Yen",
	"KRW": "South Korean Won",
	"MYR": "Malaysian Ringgit",
	"NZD": "New Zealand Dollar",
	"PHP": "Philippine Peso",
	"SGD": "Singapore Dollar",
	"THB": "Thai Baht",
	"USD": "United States Dollar",
	"VND": "Vietnamese Dong",
}

// IsValidFormat reports whether s looks like an ISO 4217 code.
func IsValidFormat(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// IsSupported reports whether the code is in the registry.
func IsSupported(c Code) bool {
	_, ok := supported[c]
	return ok
}

// Normalize uppercases and validates a raw code. An empty input resolves to
// DefaultCurrency.
func Normalize(s string) (Code, bool) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if c == "" {
		return DefaultCurrency, true
	}
	if !IsValidFormat(string(c)) || !IsSupported(c) {
		return "", false
	}
	return c, true
}

// Codes returns the supported codes in lexical order.
func Codes() []string {
	out := make([]string, 0, len(supported))
	for c := range supported {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}
