package currencyutils

import (
	"regexp"
	"strings"

	"fjacquet/ia-financiera/internal/classifyerror"

	"github.com/shopspring/decimal"
)

// number matches an integer part with optional "," thousands groups.
const number = `(?:\d{1,3}(?:,\d{3})+|\d+)`

// numberEnd closes a currency-marked amount: trailing punctuation is allowed
// only when no digit follows it, so "$1,234.567" is not cut to 1234.56.
const numberEnd = `(?:[.,](?:\D|$)|[^\d.,]|$)`

// amountPatterns is the extraction cascade, tried in order. Each pattern captures
// the numeric literal in group 1.
var amountPatterns = []*regexp.Regexp{
	// $1,234.50
	regexp.MustCompile(`\$\s?(` + number + `(?:\.\d{1,2})?)` + numberEnd),
	// 1234.50 pesos
	regexp.MustCompile(`(?i)(` + number + `(?:\.\d+)?)\s*(?:pesos?|mxn|d[oó]lares|usd)\b`),
	// 1234.50
	regexp.MustCompile(`\b(` + number + `(?:\.\d+)?)\b`),
}

// ExtractAmount finds the transaction amount in a free-form message. The first
// pattern of the cascade that matches wins. Thousands separators are dropped and
// "." is the decimal point.
//
// It fails with classifyerror.ErrNoAmountFound when nothing numeric is present
// and classifyerror.ErrInvalidAmount when the value is not positive. It never
// defaults to zero.
func ExtractAmount(text string) (decimal.Decimal, error) {
	for _, pattern := range amountPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		literal := strings.ReplaceAll(match[1], ",", "")
		amount, err := decimal.NewFromString(literal)
		if err != nil {
			return decimal.Zero, &classifyerror.AmountError{Input: text, Value: match[1], Err: classifyerror.ErrInvalidAmount}
		}
		if !amount.IsPositive() {
			return decimal.Zero, &classifyerror.AmountError{Input: text, Value: match[1], Err: classifyerror.ErrInvalidAmount}
		}
		return amount, nil
	}

	return decimal.Zero, &classifyerror.AmountError{Input: text, Err: classifyerror.ErrNoAmountFound}
}
