package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		amountStr string
		expected  decimal.Decimal
		hasError  bool
	}{
		{"Empty string", "", decimal.Zero, false},
		{"Simple decimal", "123.45", decimal.NewFromFloat(123.45), false},
		{"Negative decimal", "-123.45", decimal.NewFromFloat(-123.45), false},
		{"Integer", "100", decimal.NewFromInt(100), false},
		{"With comma decimal separator", "123,45", decimal.NewFromFloat(123.45), false},
		{"With thousand separator (comma)", "1,234.56", decimal.NewFromFloat(1234.56), false},
		{"With thousand separator (apostrophe)", "1'234.56", decimal.NewFromFloat(1234.56), false},
		{"European format", "1.234,56", decimal.NewFromFloat(1234.56), false},
		{"With currency symbol (USD)", "$123.45", decimal.NewFromFloat(123.45), false},
		{"With currency word", "150 pesos", decimal.NewFromInt(150), false},
		{"With currency code", "MXN 123.45", decimal.NewFromFloat(123.45), false},
		{"With spaces", "  123.45  ", decimal.NewFromFloat(123.45), false},
		{"Malformed decimal", "123.45.67", decimal.Zero, true},
		{"Non-numeric", "abc", decimal.Zero, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseAmount(tc.amountStr)

			if tc.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.True(t, tc.expected.Equal(result), "Expected %s but got %s", tc.expected.String(), result.String())
			}
		})
	}
}

func TestStandardizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple decimal", "123.45", "123.45"},
		{"With comma decimal separator", "123,45", "123.45"},
		{"With thousand separator (comma)", "1,234.56", "1234.56"},
		{"Multiple separators", "1,234,567.89", "1234567.89"},
		{"Comma as thousands separator", "1,234", "1234"},
		{"European multiple separators", "1.234.567,89", "1234567.89"},
		{"Dollar and pesos", "$1,234.50 pesos", "1234.50"},
		{"Dolares with accent", "20 dólares", "20"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StandardizeAmount(tc.input))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	amount := decimal.RequireFromString("1234.5")

	assert.Equal(t, "1234.50", FormatAmount(amount, ""))
	assert.Equal(t, "$1234.50", FormatAmount(amount, "usd"))
	assert.Equal(t, "€1234.50", FormatAmount(amount, "EUR"))
	assert.Equal(t, "MXN 1234.50", FormatAmount(amount, "mxn"))
}
