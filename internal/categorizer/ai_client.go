package categorizer

import (
	"context"

	"fjacquet/ia-financiera/internal/models"
)

// AIClient is a remote model able to classify a message against a list of
// category labels. internal/remote provides the implementations.
type AIClient interface {
	Classify(ctx context.Context, message string, categories []string) (models.Classification, error)
}
