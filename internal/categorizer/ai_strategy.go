package categorizer

import (
	"context"
	"errors"
	"strings"

	"fjacquet/ia-financiera/internal/classifyerror"
	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"
	"fjacquet/ia-financiera/internal/textutils"
)

// AIStrategy implements categorization using a remote model through AIClient.
// The remote label is resolved against the vocabulary with the configured
// unknown-category policy.
type AIStrategy struct {
	aiClient AIClient
	store    *VocabularyStore
	policy   UnknownCategoryPolicy
	logger   logging.Logger
}

// NewAIStrategy creates a new AIStrategy instance. A nil client disables it.
func NewAIStrategy(aiClient AIClient, store *VocabularyStore, policy UnknownCategoryPolicy, logger logging.Logger) *AIStrategy {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if policy == "" {
		policy = PolicyCoerce
	}
	return &AIStrategy{
		aiClient: aiClient,
		store:    store,
		policy:   policy,
		logger:   logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *AIStrategy) Name() string {
	return "AI"
}

// Categorize asks the remote model for the whole record. A missing or disabled
// client answers not found without error; any other client failure is
// returned so the caller can retry or fall back.
func (s *AIStrategy) Categorize(ctx context.Context, tx Transaction, vocab *Vocabulary) (models.Classification, bool, error) {
	if s.aiClient == nil {
		s.logger.WithField(logging.FieldStrategy, s.Name()).Debug("AI client not available, skipping AI categorization")
		return models.Classification{}, false, nil
	}

	if strings.TrimSpace(tx.Message) == "" {
		return models.Classification{}, false, nil
	}

	cls, err := s.aiClient.Classify(ctx, tx.Message, vocab.Names())
	if err != nil {
		if errors.Is(err, classifyerror.ErrRemoteDisabled) {
			return models.Classification{}, false, nil
		}
		s.logger.WithError(err).WithField(logging.FieldStrategy, s.Name()).Warn("AI categorization failed")
		return models.Classification{}, false, err
	}

	category, err := s.store.Resolve(vocab, cls.Category, s.policy)
	if err != nil {
		s.logger.WithError(err).WithFields(
			logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
			logging.Field{Key: "ai_category", Value: cls.Category},
		).Warn("AI returned an unusable category")
		return models.Classification{}, false, err
	}

	description := strings.TrimSpace(cls.Description)
	if description == "" {
		description = textutils.Capitalize(tx.Message)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: "ai_category", Value: cls.Category},
		logging.Field{Key: logging.FieldType, Value: cls.Type},
	).Debug("Message categorized using AI")

	return models.Classification{
		Type:        cls.Type,
		Category:    category,
		Amount:      cls.Amount,
		Description: description,
	}, true, nil
}
