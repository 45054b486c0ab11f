// internal/domain/currency.go
package domain

import (
	"fmt"
	"strings"
)

// Currency is one of the closed set of supported currency codes.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyEGP Currency = "EGP"
	CurrencySAR Currency = "SAR"
)

// Currencies lists every supported currency.
var Currencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyEGP, CurrencySAR}

// ParseCurrency converts a case-insensitive code into a Currency.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Valid() {
		return "", fmt.Errorf("unsupported currency %q", code)
	}
	return c, nil
}

// Valid reports whether c belongs to the supported set.
func (c Currency) Valid() bool {
	for _, known := range Currencies {
		if c == known {
			return true
		}
	}
	return false
}

// MinorUnits is the number of fractional digits amounts in c are kept to.
func (c Currency) MinorUnits() int32 {
	return 2
}

func (c Currency) String() string {
	return string(c)
}
