// Package moderation implements the safety gate run before any classification.
// A message is rejected when the local pattern table, the self-censorship
// pattern or (optionally) a remote moderation service flags it.
package moderation

import (
	"context"
	"strings"
	"time"

	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"
	"fjacquet/ia-financiera/internal/textutils"
)

// RemoteModerator is an external moderation service.
type RemoteModerator interface {
	Moderate(ctx context.Context, text string) (models.ModerationVerdict, error)
}

// DefaultRemoteTimeout bounds a remote moderation call when no timeout is set.
const DefaultRemoteTimeout = 5 * time.Second

// Filter is the moderation gate. It is safe for concurrent use.
type Filter struct {
	rules   []compiledRule
	remote  RemoteModerator
	timeout time.Duration
	logger  logging.Logger
}

var defaultFilter = mustDefaultFilter()

func mustDefaultFilter() *Filter {
	f, err := NewFilter(DefaultRules, nil, 0, nil)
	if err != nil {
		panic(err)
	}
	return f
}

// NewFilter compiles rules (DefaultRules when nil). remote may be nil; a
// non-positive timeout means DefaultRemoteTimeout.
func NewFilter(rules []Rule, remote RemoteModerator, timeout time.Duration, logger logging.Logger) (*Filter, error) {
	if rules == nil {
		rules = DefaultRules
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}

	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}

	return &Filter{
		rules:   compiled,
		remote:  remote,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// IsOffensive runs the local checks of the default rule table.
func IsOffensive(rawText string) models.ModerationVerdict {
	return defaultFilter.Local(rawText)
}

// Local runs the pattern table and the censorship pattern. It is pure.
func (f *Filter) Local(rawText string) models.ModerationVerdict {
	clean := models.ModerationVerdict{Source: models.SourceLocalPattern}
	if rawText == "" {
		return clean
	}

	squashed := textutils.NormalizeForModeration(rawText)
	spaced := collapseSpacedLetters(textutils.NormalizeMasked(rawText))
	glued := gluedWords(rawText)

	for _, r := range f.rules {
		var hit bool
		switch r.mode {
		case ModeSquashed:
			hit = strings.Contains(squashed, r.root)
		case ModeWordStart:
			hit = r.matchWordStart(spaced, glued)
		}
		if hit {
			return models.ModerationVerdict{Flagged: true, MatchedTerm: r.root, Source: models.SourceLocalPattern}
		}
	}

	if term := censorPattern.FindString(textutils.Fold(rawText)); term != "" {
		return models.ModerationVerdict{Flagged: true, MatchedTerm: term, Source: models.SourceLocalPattern}
	}

	return clean
}

// Check runs the local checks and, when they pass and a remote moderator is
// configured, the remote one. Remote failures never block a message.
func (f *Filter) Check(ctx context.Context, rawText string) models.ModerationVerdict {
	verdict := f.Local(rawText)
	if verdict.Flagged {
		f.logger.WithFields(
			logging.Field{Key: logging.FieldSource, Value: verdict.Source},
			logging.Field{Key: logging.FieldTerm, Value: verdict.MatchedTerm},
		).Info("Message flagged by moderation")
		return verdict
	}

	if f.remote == nil {
		return verdict
	}

	remoteCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	remoteVerdict, err := f.remote.Moderate(remoteCtx, rawText)
	if err != nil {
		f.logger.WithError(err).WithField(logging.FieldDuration, time.Since(start)).
			Warn("Remote moderation failed, letting message through")
		return verdict
	}

	if remoteVerdict.Flagged {
		remoteVerdict.Source = models.SourceRemoteModeration
		f.logger.WithFields(
			logging.Field{Key: logging.FieldSource, Value: remoteVerdict.Source},
			logging.Field{Key: logging.FieldTerm, Value: remoteVerdict.MatchedTerm},
		).Info("Message flagged by moderation")
		return remoteVerdict
	}

	return verdict
}

// HasRemote reports whether a remote moderator is configured.
func (f *Filter) HasRemote() bool {
	return f.remote != nil
}
