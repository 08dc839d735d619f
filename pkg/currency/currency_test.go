package currency_test

import (
	"testing"

	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/stretchr/testify/assert"
)

func TestIsValidFormat(t *testing.T) {
	assert.True(t, currency.IsValidFormat("USD"))
	assert.False(t, currency.IsValidFormat("usd"))
	assert.False(t, currency.IsValidFormat("US"))
	assert.False(t, currency.IsValidFormat("USDT"))
	assert.False(t, currency.IsValidFormat(""))
}

func TestNormalize(t *testing.T) {
	code, ok := currency.Normalize("sgd")
	assert.True(t, ok)
	assert.Equal(t, currency.Code("SGD"), code)

	_, ok = currency.Normalize("XXX")
	assert.False(t, ok)

	// Empty input falls back to the default currency.
	code, ok = currency.Normalize("")
	assert.True(t, ok)
	assert.Equal(t, currency.DefaultCurrency, code)
}
