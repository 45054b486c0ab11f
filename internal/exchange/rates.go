// internal/exchange/rates.go
package exchange

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"speedo-transfer/internal/domain"
	"speedo-transfer/internal/util"
)

// rateScale is the number of fractional digits kept on a cross rate.
const rateScale = 8

// Resolver returns how many units of `to` one unit of `from` buys.
type Resolver interface {
	Rate(from, to domain.Currency) (decimal.Decimal, error)
}

// Table is a static Resolver keyed on units of each currency per one USD.
type Table struct {
	perUSD map[domain.Currency]decimal.Decimal
}

// NewTable builds a Table. USD is always present with rate 1.
func NewTable(perUSD map[domain.Currency]decimal.Decimal) *Table {
	rates := make(map[domain.Currency]decimal.Decimal, len(perUSD)+1)
	for c, r := range perUSD {
		rates[c] = r
	}
	rates[domain.CurrencyUSD] = decimal.NewFromInt(1)
	return &Table{perUSD: rates}
}

// DefaultTable returns the rates the service ships with.
func DefaultTable() *Table {
	return NewTable(map[domain.Currency]decimal.Decimal{
		domain.CurrencyEUR: decimal.RequireFromString("0.90"),
		domain.CurrencyGBP: decimal.RequireFromString("0.79"),
		domain.CurrencyEGP: decimal.RequireFromString("48.50"),
		domain.CurrencySAR: decimal.RequireFromString("3.75"),
	})
}

// ParseTable reads "EUR=0.90,GBP=0.79" style configuration.
// An empty string yields DefaultTable.
func ParseTable(raw string) (*Table, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTable(), nil
	}

	rates := make(map[domain.Currency]decimal.Decimal)
	for _, pair := range strings.Split(raw, ",") {
		code, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("exchange: malformed rate %q", pair)
		}
		currency, err := domain.ParseCurrency(code)
		if err != nil {
			return nil, fmt.Errorf("exchange: %w", err)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("exchange: invalid rate for %s: %w", currency, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("exchange: rate for %s must be positive", currency)
		}
		rates[currency] = rate
	}
	return NewTable(rates), nil
}

// Rate implements Resolver. Same-currency lookups always return exactly 1.
func (t *Table) Rate(from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	fromRate, ok := t.perUSD[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s: %w", from, util.ErrRateUnavailable)
	}
	toRate, ok := t.perUSD[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s: %w", to, util.ErrRateUnavailable)
	}
	return toRate.DivRound(fromRate, rateScale), nil
}

// Convert applies the rate from→to to amount and rounds half-even to the
// receiving currency's minor units. Same-currency amounts are returned untouched.
func Convert(r Resolver, amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	rate, err := r.Rate(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate).RoundBank(to.MinorUnits()), nil
}
