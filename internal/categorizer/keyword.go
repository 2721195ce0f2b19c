package categorizer

import (
	"context"

	"fjacquet/ia-financiera/internal/classifyerror"
	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"
	"fjacquet/ia-financiera/internal/textutils"
)

// KeywordStrategy implements local categorization by max-coincidence keyword
// scoring over the vocabulary.
type KeywordStrategy struct {
	logger logging.Logger
}

// NewKeywordStrategy creates a new KeywordStrategy instance.
func NewKeywordStrategy(logger logging.Logger) *KeywordStrategy {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &KeywordStrategy{logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Categorize classifies the transaction locally: type from cue words, category
// from keyword scoring, description from the capitalized message. A message no
// keyword matches fails with a *classifyerror.CategoryError.
func (s *KeywordStrategy) Categorize(ctx context.Context, tx Transaction, vocab *Vocabulary) (models.Classification, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Classification{}, false, err
	}

	txType := ClassifyType(tx.Normalized)
	if txType == models.TypeExpense && !HasExpenseCue(tx.Normalized) {
		s.logger.WithField(logging.FieldStrategy, s.Name()).Debug("No type cue found, defaulting to expense")
	}

	category, err := s.Score(tx.Normalized, vocab)
	if err != nil {
		return models.Classification{}, false, err
	}

	return models.Classification{
		Type:        txType,
		Category:    category,
		Description: textutils.Capitalize(tx.Message),
	}, true, nil
}

// Score returns the category with the most whole-word keyword hits in the
// normalized text. Ties go to the larger total matched keyword length, then to
// the first-declared category. The Other sentinel never scores.
func (s *KeywordStrategy) Score(normalizedText string, vocab *Vocabulary) (string, error) {
	best := -1
	bestCount, bestLength := 0, 0
	var bestTerms []string

	for i, m := range vocab.matchers {
		if m.sentinel {
			continue
		}
		count, length := 0, 0
		var terms []string
		for _, kw := range m.keywords {
			if kw.re.MatchString(normalizedText) {
				count++
				length += len(kw.keyword)
				terms = append(terms, kw.keyword)
			}
		}
		if count == 0 {
			continue
		}
		if count > bestCount || (count == bestCount && length > bestLength) {
			best, bestCount, bestLength, bestTerms = i, count, length, terms
		}
	}

	if best < 0 {
		return "", &classifyerror.CategoryError{Input: normalizedText}
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldCategory, Value: vocab.matchers[best].name},
		logging.Field{Key: logging.FieldCount, Value: bestCount},
		logging.Field{Key: "keywords", Value: bestTerms},
	).Debug("Message categorized using keyword scoring")

	return vocab.matchers[best].name, nil
}
