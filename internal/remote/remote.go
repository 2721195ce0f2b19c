// Package remote adapts external language-model services to the classifier.
// Providers take a message and the category labels and answer a full
// classification; every failure is reported as a *classifyerror.RemoteError so
// callers can fall back to local classification. Providers never retry.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"fjacquet/ia-financiera/internal/classifyerror"
	"fjacquet/ia-financiera/internal/models"
)

// Provider names a remote backend.
type Provider string

const (
	ProviderNone   Provider = "none"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Default models per provider.
const (
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultGeminiModel     = "gemini-1.5-flash"
	DefaultModerationModel = "omni-moderation-latest"
)

// ParseProvider validates a provider name. Empty means none.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProviderNone:
		return ProviderNone, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown remote provider %q (want none, openai or gemini)", s)
	}
}

// Classifier classifies a message against a list of category labels.
type Classifier interface {
	Classify(ctx context.Context, message string, categories []string) (models.Classification, error)
}

// Options configures a provider.
type Options struct {
	APIKey            string
	Model             string
	BaseURL           string // OpenAI-compatible endpoint override
	RequestsPerMinute int    // 0 disables throttling
	HTTPClient        *http.Client
}

// Disabled is the null Classifier used when no provider is configured.
type Disabled struct{}

// Classify always fails with classifyerror.ErrRemoteDisabled.
func (Disabled) Classify(context.Context, string, []string) (models.Classification, error) {
	return models.Classification{}, classifyerror.ErrRemoteDisabled
}
