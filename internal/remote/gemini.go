package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/ia-financiera/internal/classifyerror"
	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// contentGenerator is the part of *genai.GenerativeModel the classifier uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClassifier classifies messages with Google Gemini.
type GeminiClassifier struct {
	client    *genai.Client
	generator contentGenerator
	model     string
	limiter   *rate.Limiter
	logger    logging.Logger
}

// NewGeminiClassifier creates the Gemini client. Call Close when done.
// BaseURL, when set, overrides the API endpoint.
func NewGeminiClassifier(ctx context.Context, opts Options, logger logging.Logger) (*GeminiClassifier, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	model := opts.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.BaseURL))
	}

	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	generativeModel := client.GenerativeModel(model)
	generativeModel.SetTemperature(0)

	return &GeminiClassifier{
		client:    client,
		generator: generativeModel,
		model:     model,
		limiter:   newLimiter(opts.RequestsPerMinute),
		logger:    logger,
	}, nil
}

// Close releases the underlying client.
func (c *GeminiClassifier) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Classify sends one generation request and parses the JSON answer.
func (c *GeminiClassifier) Classify(ctx context.Context, message string, categories []string) (models.Classification, error) {
	if err := wait(ctx, c.limiter); err != nil {
		return models.Classification{}, classifyerror.NewRemoteError(string(ProviderGemini), "throttle", err)
	}

	start := time.Now()
	resp, err := c.generator.GenerateContent(ctx, genai.Text(BuildClassificationPrompt(message, categories)))
	if err != nil {
		return models.Classification{}, classifyerror.NewRemoteError(string(ProviderGemini), "classify", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return models.Classification{}, classifyerror.NewRemoteError(string(ProviderGemini), "classify", err)
	}

	cls, err := ParseClassification(text)
	if err != nil {
		return models.Classification{}, classifyerror.NewRemoteError(string(ProviderGemini), "parse", err)
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldProvider, Value: ProviderGemini},
		logging.Field{Key: logging.FieldModel, Value: c.model},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start)},
	).Debug("Remote classification received")

	return cls, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no response from Gemini API", ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: Gemini answered without text", ErrInvalidResponse)
	}
	return b.String(), nil
}
