package categorizer

import (
	"context"

	"fjacquet/ia-financiera/internal/models"
)

// CategorizationStrategy defines a method for classifying transaction messages.
// Each strategy implements a specific approach (keywords, remote model, etc.).
type CategorizationStrategy interface {
	// Categorize attempts to classify a transaction against a vocabulary snapshot.
	//
	// Returns:
	//   - models.Classification: type, category and description (only valid if found is true)
	//   - bool: whether the strategy produced a classification
	//   - error: why it could not, when that is more than "not applicable"
	Categorize(ctx context.Context, tx Transaction, vocab *Vocabulary) (models.Classification, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
