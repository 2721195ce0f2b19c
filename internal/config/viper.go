// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every configuration environment variable (IAFIN_LOG_LEVEL, ...).
const EnvPrefix = "IAFIN"

// Config represents the complete application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Remote     RemoteConfig     `mapstructure:"remote" yaml:"remote"`
	Moderation ModerationConfig `mapstructure:"moderation" yaml:"moderation"`
	Categories CategoriesConfig `mapstructure:"categories" yaml:"categories"`
	Backend    BackendConfig    `mapstructure:"backend" yaml:"backend"`
	Batch      BatchConfig      `mapstructure:"batch" yaml:"batch"`
}

// LogConfig selects the log level and format (text or json).
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// RemoteConfig configures the remote classification provider.
type RemoteConfig struct {
	Provider          string `mapstructure:"provider" yaml:"provider"` // auto, none, openai or gemini
	Model             string `mapstructure:"model" yaml:"model"`
	BaseURL           string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	MaxAttempts       int    `mapstructure:"max_attempts" yaml:"max_attempts"`
	OpenAIAPIKey      string `mapstructure:"openai_api_key" yaml:"-"` // Never serialize API keys
	GeminiAPIKey      string `mapstructure:"gemini_api_key" yaml:"-"`
}

// ModerationConfig configures the optional remote moderation check.
type ModerationConfig struct {
	RemoteEnabled  bool   `mapstructure:"remote_enabled" yaml:"remote_enabled"`
	Model          string `mapstructure:"model" yaml:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// CategoriesConfig locates the vocabulary seed and sets the unknown-category policy.
type CategoriesConfig struct {
	File          string `mapstructure:"file" yaml:"file"`
	UnknownPolicy string `mapstructure:"unknown_policy" yaml:"unknown_policy"`
}

// BackendConfig configures draft forwarding.
type BackendConfig struct {
	URL            string `mapstructure:"url" yaml:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// BatchConfig configures batch classification.
type BatchConfig struct {
	Workers   int    `mapstructure:"workers" yaml:"workers"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then config.yaml, then environment variables.
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile is InitializeConfig reading an explicit config file
// instead of searching the standard locations. An empty path searches.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ia-financiera")
		v.AddConfigPath(".ia-financiera")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicitly given)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. Unprefixed variables kept from the original deployment
	for key, env := range map[string]string{
		"remote.openai_api_key": "OPENAI_API_KEY",
		"remote.gemini_api_key": "GEMINI_API_KEY",
		"backend.url":           "BACKEND_URL",
	} {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	if err := v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Remote classification defaults
	v.SetDefault("remote.provider", "auto")
	v.SetDefault("remote.model", "")
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.timeout_seconds", 10)
	v.SetDefault("remote.requests_per_minute", 60)
	v.SetDefault("remote.max_attempts", 1)
	v.SetDefault("remote.openai_api_key", "")
	v.SetDefault("remote.gemini_api_key", "")

	// Moderation defaults
	v.SetDefault("moderation.remote_enabled", false)
	v.SetDefault("moderation.model", "omni-moderation-latest")
	v.SetDefault("moderation.timeout_seconds", 5)

	// Category defaults
	v.SetDefault("categories.file", "categories.yaml")
	v.SetDefault("categories.unknown_policy", "coerce")

	// Backend defaults
	v.SetDefault("backend.url", "https://api-firebase-auth.onrender.com/api/transactions")
	v.SetDefault("backend.timeout_seconds", 15)

	// Batch defaults
	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.delimiter", ",")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch strings.ToLower(config.Remote.Provider) {
	case "auto", "none", "":
	case "openai":
		if config.Remote.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY required when remote.provider is openai")
		}
	case "gemini":
		if config.Remote.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when remote.provider is gemini")
		}
	default:
		return fmt.Errorf("invalid remote.provider: %s (must be auto, none, openai or gemini)", config.Remote.Provider)
	}

	if config.Remote.TimeoutSeconds < 1 || config.Remote.TimeoutSeconds > 300 {
		return fmt.Errorf("remote.timeout_seconds must be between 1 and 300, got: %d", config.Remote.TimeoutSeconds)
	}
	if config.Remote.RequestsPerMinute < 0 || config.Remote.RequestsPerMinute > 1000 {
		return fmt.Errorf("remote.requests_per_minute must be between 0 and 1000, got: %d", config.Remote.RequestsPerMinute)
	}
	if config.Remote.MaxAttempts < 1 || config.Remote.MaxAttempts > 5 {
		return fmt.Errorf("remote.max_attempts must be between 1 and 5, got: %d", config.Remote.MaxAttempts)
	}

	if config.Moderation.RemoteEnabled && config.Remote.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY required when moderation.remote_enabled is true")
	}
	if config.Moderation.TimeoutSeconds < 1 || config.Moderation.TimeoutSeconds > 60 {
		return fmt.Errorf("moderation.timeout_seconds must be between 1 and 60, got: %d", config.Moderation.TimeoutSeconds)
	}

	switch config.Categories.UnknownPolicy {
	case "coerce", "extend":
	default:
		return fmt.Errorf("invalid categories.unknown_policy: %s (must be 'coerce' or 'extend')", config.Categories.UnknownPolicy)
	}

	if config.Backend.URL == "" {
		return fmt.Errorf("backend.url must not be empty")
	}
	if config.Backend.TimeoutSeconds < 1 || config.Backend.TimeoutSeconds > 300 {
		return fmt.Errorf("backend.timeout_seconds must be between 1 and 300, got: %d", config.Backend.TimeoutSeconds)
	}

	if config.Batch.Workers < 1 || config.Batch.Workers > 64 {
		return fmt.Errorf("batch.workers must be between 1 and 64, got: %d", config.Batch.Workers)
	}
	if utf8.RuneCountInString(config.Batch.Delimiter) != 1 {
		return fmt.Errorf("batch delimiter must be a single character, got: %s", config.Batch.Delimiter)
	}

	return nil
}

// RemoteProvider resolves the configured provider name. "auto" picks OpenAI
// when its key is set, then Gemini, then none.
func (c *Config) RemoteProvider() string {
	provider := strings.ToLower(c.Remote.Provider)
	if provider != "auto" && provider != "" {
		return provider
	}
	switch {
	case c.Remote.OpenAIAPIKey != "":
		return "openai"
	case c.Remote.GeminiAPIKey != "":
		return "gemini"
	default:
		return "none"
	}
}

// RemoteAPIKey returns the key of the resolved provider.
func (c *Config) RemoteAPIKey() string {
	switch c.RemoteProvider() {
	case "openai":
		return c.Remote.OpenAIAPIKey
	case "gemini":
		return c.Remote.GeminiAPIKey
	default:
		return ""
	}
}

// RemoteTimeout returns the per-attempt remote classification timeout.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Remote.TimeoutSeconds) * time.Second
}

// ModerationTimeout returns the remote moderation timeout.
func (c *Config) ModerationTimeout() time.Duration {
	return time.Duration(c.Moderation.TimeoutSeconds) * time.Second
}

// BackendTimeout returns the draft forwarding timeout.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// BatchDelimiter returns the report delimiter as a rune.
func (c *Config) BatchDelimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Batch.Delimiter)
	return r
}
