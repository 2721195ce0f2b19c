// Package container provides dependency injection for the ia-financiera application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"io"

	"fjacquet/ia-financiera/internal/backend"
	"fjacquet/ia-financiera/internal/batch"
	"fjacquet/ia-financiera/internal/categorizer"
	"fjacquet/ia-financiera/internal/config"
	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/moderation"
	"fjacquet/ia-financiera/internal/pipeline"
	"fjacquet/ia-financiera/internal/remote"
	"fjacquet/ia-financiera/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      *store.CategoryStore
	vocabulary *categorizer.VocabularyStore
	provider   remote.Provider
	classifier remote.Classifier
	moderation *moderation.Filter
	pipeline   *pipeline.Pipeline
	forwarder  *backend.Forwarder
	processor  *batch.Processor
}

// NewContainer creates and wires all application dependencies. The remote
// provider is selected once here; without one the pipeline runs local-only
// through the null classifier.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	return newContainer(cfg, logger)
}

func newContainer(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	categoryStore := store.NewCategoryStore(cfg.Categories.File, logger)
	seed, err := categoryStore.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	vocabulary, err := categorizer.NewVocabularyStore(seed, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build vocabulary: %w", err)
	}

	policy, err := categorizer.ParseUnknownCategoryPolicy(cfg.Categories.UnknownPolicy)
	if err != nil {
		return nil, err
	}

	provider, err := remote.ParseProvider(cfg.RemoteProvider())
	if err != nil {
		return nil, err
	}

	classifier, err := newClassifier(provider, cfg, logger)
	if err != nil {
		return nil, err
	}

	var moderator moderation.RemoteModerator
	if cfg.Moderation.RemoteEnabled {
		moderator, err = remote.NewOpenAIModerator(remote.Options{
			APIKey:  cfg.Remote.OpenAIAPIKey,
			Model:   cfg.Moderation.Model,
			BaseURL: cfg.Remote.BaseURL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create moderator: %w", err)
		}
	}

	filter, err := moderation.NewFilter(nil, moderator, cfg.ModerationTimeout(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build moderation filter: %w", err)
	}

	p := pipeline.New(
		filter,
		vocabulary,
		categorizer.NewKeywordStrategy(logger),
		categorizer.NewAIStrategy(classifier, vocabulary, policy, logger),
		pipeline.Options{
			RemoteTimeout: cfg.RemoteTimeout(),
			MaxAttempts:   cfg.Remote.MaxAttempts,
		},
		logger,
	)

	logger.Info("Container initialized successfully",
		logging.Field{Key: logging.FieldProvider, Value: provider},
		logging.Field{Key: "remote_moderation", Value: filter.HasRemote()},
		logging.Field{Key: "categories", Value: vocabulary.Snapshot().Len()},
		logging.Field{Key: "unknown_policy", Value: policy})

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      categoryStore,
		vocabulary: vocabulary,
		provider:   provider,
		classifier: classifier,
		moderation: filter,
		pipeline:   p,
		forwarder:  backend.NewForwarder(cfg.Backend.URL, cfg.BackendTimeout(), logger),
		processor:  batch.NewProcessor(p, cfg.Batch.Workers, logger),
	}, nil
}

func newClassifier(provider remote.Provider, cfg *config.Config, logger logging.Logger) (remote.Classifier, error) {
	opts := remote.Options{
		APIKey:            cfg.RemoteAPIKey(),
		Model:             cfg.Remote.Model,
		BaseURL:           cfg.Remote.BaseURL,
		RequestsPerMinute: cfg.Remote.RequestsPerMinute,
	}

	switch provider {
	case remote.ProviderOpenAI:
		c, err := remote.NewOpenAIClassifier(opts, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI classifier: %w", err)
		}
		return c, nil
	case remote.ProviderGemini:
		c, err := remote.NewGeminiClassifier(context.Background(), opts, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini classifier: %w", err)
		}
		return c, nil
	default:
		logger.Info("Remote classification disabled, using local classifier only")
		return remote.Disabled{}, nil
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the vocabulary seed store.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetVocabulary returns the live vocabulary.
func (c *Container) GetVocabulary() *categorizer.VocabularyStore {
	return c.vocabulary
}

// GetProvider returns the selected remote provider.
func (c *Container) GetProvider() remote.Provider {
	return c.provider
}

// GetModeration returns the moderation gate.
func (c *Container) GetModeration() *moderation.Filter {
	return c.moderation
}

// GetPipeline returns the classification pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetForwarder returns the backend forwarder.
func (c *Container) GetForwarder() *backend.Forwarder {
	return c.forwarder
}

// GetProcessor returns the batch processor.
func (c *Container) GetProcessor() *batch.Processor {
	return c.processor
}

// Close releases the remote client when it holds resources.
func (c *Container) Close() error {
	if closer, ok := c.classifier.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close remote client: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
