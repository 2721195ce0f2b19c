// Package root contains the root command for the application
package root

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/ia-financiera/internal/config"
	"fjacquet/ia-financiera/internal/container"
	"fjacquet/ia-financiera/internal/logging"

	"github.com/spf13/cobra"
)

// GlobalFlags are the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

// ErrNotInitialized is returned by commands run before the container is built.
var ErrNotInitialized = errors.New("application container is not initialized")

var (
	// AppConfig is the configuration loaded by PersistentPreRunE.
	AppConfig *config.Config

	// AppContainer holds the wired dependencies for subcommands.
	AppContainer *container.Container

	// Flags holds the values of the persistent flags.
	Flags = GlobalFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ia-financiera",
		Short: "Classify natural-language money messages into transaction drafts.",
		Long: `ia-financiera turns short free-form messages such as "gasté $150.50 en tacos"
into structured transaction drafts (type, amount, category, description, date).

Messages go through a moderation gate and amount extraction, then a remote
language model (OpenAI or Gemini) and a local keyword classifier. Drafts can be
printed, written to a CSV report or forwarded to the transactions backend.`,
		SilenceUsage:      true,
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				AppContainer.GetLogger().WithError(err).Warn("Failed to close container")
			}
		},
	}
)

// Init registers the persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVar(&Flags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.ia-financiera, .ia-financiera or .)")
	Cmd.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&Flags.LogFormat, "log-format", "", "Log format (text or json)")
}

// initialize loads .env and the configuration, applies flag overrides and
// builds the container.
func initialize(cmd *cobra.Command, args []string) error {
	envFile, envErr := config.LoadEnv()

	cfg, err := config.InitializeConfigFromFile(Flags.ConfigFile)
	if err != nil {
		return err
	}
	if Flags.LogLevel != "" {
		cfg.Log.Level = Flags.LogLevel
	}
	if Flags.LogFormat != "" {
		cfg.Log.Format = Flags.LogFormat
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	logger := c.GetLogger()
	if envErr != nil {
		logger.WithError(envErr).Warn("Error loading .env file")
	} else if envFile != "" {
		logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldInputFile, Value: envFile})
	}

	AppConfig = cfg
	AppContainer = c
	return nil
}

// GetContainer returns the initialized container or ErrNotInitialized.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, ErrNotInitialized
	}
	return AppContainer, nil
}

// GetLogger returns the container's logger, or a discarding logger before
// initialization.
func GetLogger() logging.Logger {
	if AppContainer == nil {
		return logging.NewDiscardLogger()
	}
	return AppContainer.GetLogger()
}

// Context returns the command context, or context.Background when the command
// runs outside Execute.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
