// Package money implements exact-decimal monetary amounts and point-in-time
// currency normalization.
//
// Invariants:
//   - Amounts are shopspring decimals, never binary floats.
//   - Stored amounts carry at most Precision decimal places.
//   - A converted amount always equals round(original * rate, Precision).
package money

import (
	"fmt"

	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/shopspring/decimal"
)

// Precision is the fixed number of decimal places for stored amounts.
const Precision int32 = 4

// Money is a monetary value in a specific currency.
type Money struct {
	amount   decimal.Decimal
	currency currency.Code
}

// New creates a Money value. The amount must be positive and must not carry
// more than Precision decimal places.
func New(amount decimal.Decimal, code currency.Code) (Money, error) {
	if code == "" {
		code = currency.DefaultCurrency
	}
	if !currency.IsValidFormat(string(code)) {
		return Money{}, domain.ErrUnknownCurrency
	}
	if err := ValidateAmount(amount); err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: code}, nil
}

// ValidateAmount checks positivity and the Precision bound without binding
// the value to a currency.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if d.Exponent() < -Precision && !d.Equal(d.Round(Precision)) {
		return domain.ErrInvalidAmount
	}
	return nil
}

// Parse creates a Money value from a decimal string as it crosses the API
// boundary.
func Parse(amount string, code currency.Code) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount)
	}
	return New(d, code)
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() currency.Code { return m.currency }

// String renders the amount as a plain decimal string.
func (m Money) String() string { return m.amount.String() }

// Conversion is the result of normalizing an amount into another currency.
// Original and Rate are retained so the stored row can prove
// Amount == round(Original * Rate, Precision).
type Conversion struct {
	Amount   decimal.Decimal
	Original decimal.Decimal
	Rate     decimal.Decimal
	From     currency.Code
	To       currency.Code
}

// Convert normalizes m into the target currency at the given rate, rounding to
// Precision. A non-positive rate is rejected.
func Convert(m Money, to currency.Code, rate decimal.Decimal) (Conversion, error) {
	if !rate.IsPositive() {
		return Conversion{}, fmt.Errorf("%w: non-positive exchange rate", domain.ErrUnknownCurrency)
	}
	return Conversion{
		Amount:   m.amount.Mul(rate).Round(Precision),
		Original: m.amount,
		Rate:     rate,
		From:     m.currency,
		To:       to,
	}, nil
}

// Verify reports whether a stored conversion still satisfies the currency
// invariant.
func (c Conversion) Verify() bool {
	return c.Amount.Equal(c.Original.Mul(c.Rate).Round(Precision))
}
