package money_test

import (
	"testing"

	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/domain/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsNonPositive(t *testing.T) {
	for _, raw := range []string{"0", "-1", "-0.0001"} {
		_, err := money.Parse(raw, "USD")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, raw)
	}
}

func TestNew_RejectsExcessPrecision(t *testing.T) {
	_, err := money.Parse("1.00001", "USD")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	// Trailing zeros beyond the fourth place are not excess precision.
	m, err := money.Parse("1.230000", "USD")
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("1.23")))
}

func TestNew_DefaultsCurrency(t *testing.T) {
	m, err := money.Parse("10", "")
	require.NoError(t, err)
	assert.Equal(t, "SGD", m.Currency().String())
}

func TestParse_RejectsGarbage(t *testing.T) {
	_, err := money.Parse("ten dollars", "USD")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestConvert_RoundsToPrecision(t *testing.T) {
	m, err := money.Parse("50.00", "EUR")
	require.NoError(t, err)

	conv, err := money.Convert(m, "SGD", decimal.RequireFromString("1.1"))
	require.NoError(t, err)

	assert.True(t, conv.Amount.Equal(decimal.RequireFromString("55.00")),
		"got %s", conv.Amount)
	assert.True(t, conv.Original.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, conv.Rate.Equal(decimal.RequireFromString("1.1")))
	assert.Equal(t, "EUR", conv.From.String())
	assert.Equal(t, "SGD", conv.To.String())
	assert.True(t, conv.Verify())
}

func TestConvert_RejectsNonPositiveRate(t *testing.T) {
	m, err := money.Parse("10", "USD")
	require.NoError(t, err)

	_, err = money.Convert(m, "SGD", decimal.Zero)
	assert.Error(t, err)
}

func TestConversion_VerifyDetectsTampering(t *testing.T) {
	m, err := money.Parse("99.99", "USD")
	require.NoError(t, err)

	conv, err := money.Convert(m, "SGD", decimal.RequireFromString("1.3456"))
	require.NoError(t, err)
	require.True(t, conv.Verify())

	conv.Amount = conv.Amount.Add(decimal.RequireFromString("0.0001"))
	assert.False(t, conv.Verify())
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, money.ValidateAmount(decimal.RequireFromString("0.0001")))
	assert.ErrorIs(t, money.ValidateAmount(decimal.RequireFromString("0.00001")),
		domain.ErrInvalidAmount)
}
