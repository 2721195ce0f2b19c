package categorizer

import (
	"regexp"
	"strings"

	"fjacquet/ia-financiera/internal/models"
)

// typeCue is a normalized word or phrase signalling a transaction direction.
// Stem cues also match any word continuing them ("invert" -> "inverti").
type typeCue struct {
	term string
	stem bool
}

var (
	incomeCues = []typeCue{
		{term: "recibi"}, {term: "gane"}, {term: "me depositaron"}, {term: "me pagaron"},
		{term: "ingreso"}, {term: "venta"}, {term: "vendi"}, {term: "cobre"},
	}
	expenseCues = []typeCue{
		{term: "gaste"}, {term: "pague"}, {term: "compre"}, {term: "invert", stem: true},
		{term: "gasto"}, {term: "pago"}, {term: "costo"},
	}

	incomePattern  = compileCues(incomeCues)
	expensePattern = compileCues(expenseCues)
)

func compileCues(cues []typeCue) *regexp.Regexp {
	alternatives := make([]string, 0, len(cues))
	for _, c := range cues {
		alt := regexp.QuoteMeta(c.term)
		if c.stem {
			alt += `\w*`
		}
		alternatives = append(alternatives, alt)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(alternatives, "|") + `)\b`)
}

// ClassifyType decides the direction of a normalized message. Income cues are
// checked first; messages without any cue are expenses.
func ClassifyType(normalizedText string) models.TransactionType {
	if incomePattern.MatchString(normalizedText) {
		return models.TypeIncome
	}
	return models.TypeExpense
}

// HasExpenseCue reports whether the message carries an explicit expense cue.
func HasExpenseCue(normalizedText string) bool {
	return expensePattern.MatchString(normalizedText)
}
