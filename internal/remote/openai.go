package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"fjacquet/ia-financiera/internal/classifyerror"
	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

func newOpenAIClient(opts Options) *openai.Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	return openai.NewClientWithConfig(cfg)
}

// openAIStatus extracts the HTTP status of an API error for logging.
func openAIStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// OpenAIClassifier classifies messages with the OpenAI chat completions API.
type OpenAIClassifier struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	logger  logging.Logger
}

// NewOpenAIClassifier creates a classifier. An empty model means DefaultOpenAIModel.
func NewOpenAIClassifier(opts Options, logger logging.Logger) (*OpenAIClassifier, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai: API key is required")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	model := opts.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIClassifier{
		client:  newOpenAIClient(opts),
		model:   model,
		limiter: newLimiter(opts.RequestsPerMinute),
		logger:  logger,
	}, nil
}

// Classify sends one chat completion and parses the JSON answer.
func (c *OpenAIClassifier) Classify(ctx context.Context, message string, categories []string) (models.Classification, error) {
	if err := wait(ctx, c.limiter); err != nil {
		return models.Classification{}, classifyerror.NewRemoteError(string(ProviderOpenAI), "throttle", err)
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildClassificationPrompt(message, categories)},
		},
	})
	if err != nil {
		c.logger.WithError(err).WithFields(
			logging.Field{Key: logging.FieldProvider, Value: ProviderOpenAI},
			logging.Field{Key: logging.FieldStatus, Value: openAIStatus(err)},
			logging.Field{Key: logging.FieldDuration, Value: time.Since(start)},
		).Debug("Chat completion request failed")
		return models.Classification{}, classifyerror.NewRemoteError(string(ProviderOpenAI), "classify", err)
	}

	if len(resp.Choices) == 0 {
		return models.Classification{}, classifyerror.NewRemoteError(string(ProviderOpenAI), "classify",
			fmt.Errorf("%w: no choices returned", ErrInvalidResponse))
	}

	cls, err := ParseClassification(resp.Choices[0].Message.Content)
	if err != nil {
		return models.Classification{}, classifyerror.NewRemoteError(string(ProviderOpenAI), "parse", err)
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldProvider, Value: ProviderOpenAI},
		logging.Field{Key: logging.FieldModel, Value: c.model},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start)},
	).Debug("Remote classification received")

	return cls, nil
}

// OpenAIModerator implements moderation.RemoteModerator with the OpenAI
// moderation endpoint.
type OpenAIModerator struct {
	client *openai.Client
	model  string
	logger logging.Logger
}

// NewOpenAIModerator creates a moderator. An empty model means DefaultModerationModel.
func NewOpenAIModerator(opts Options, logger logging.Logger) (*OpenAIModerator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai: API key is required")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	model := opts.Model
	if model == "" {
		model = DefaultModerationModel
	}

	return &OpenAIModerator{
		client: newOpenAIClient(opts),
		model:  model,
		logger: logger,
	}, nil
}

// Moderate asks the moderation endpoint about text. MatchedTerm lists the
// flagged moderation categories.
func (m *OpenAIModerator) Moderate(ctx context.Context, text string) (models.ModerationVerdict, error) {
	resp, err := m.client.Moderations(ctx, openai.ModerationRequest{
		Input: text,
		Model: m.model,
	})
	if err != nil {
		return models.ModerationVerdict{}, classifyerror.NewRemoteError(string(ProviderOpenAI), "moderate", err)
	}

	verdict := models.ModerationVerdict{Source: models.SourceRemoteModeration}
	var flagged []string
	for _, result := range resp.Results {
		if !result.Flagged {
			continue
		}
		verdict.Flagged = true
		flagged = append(flagged, flaggedCategories(result.Categories)...)
	}
	verdict.MatchedTerm = strings.Join(flagged, ",")

	m.logger.WithFields(
		logging.Field{Key: logging.FieldProvider, Value: ProviderOpenAI},
		logging.Field{Key: "flagged", Value: verdict.Flagged},
	).Debug("Remote moderation received")

	return verdict, nil
}

// flaggedCategories lists the true entries of a moderation category set using
// its wire names ("harassment", "hate/threatening", ...).
func flaggedCategories(categories openai.ResultCategories) []string {
	data, err := json.Marshal(categories)
	if err != nil {
		return nil
	}
	var set map[string]bool
	if err := json.Unmarshal(data, &set); err != nil {
		return nil
	}
	var names []string
	for name, on := range set {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
