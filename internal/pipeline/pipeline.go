// Package pipeline orchestrates the classification of one free-form message into
// a transaction draft:
//
//	Received -> Moderated -> AmountExtracted -> (Type || Category) -> Assembled
//
// Moderation and amount failures are terminal. The remote classifier and the
// local keyword classifier run in parallel; a remote success provides the whole
// record, any remote failure hands the whole record to the local classifier.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/ia-financiera/internal/categorizer"
	"fjacquet/ia-financiera/internal/classifyerror"
	"fjacquet/ia-financiera/internal/currencyutils"
	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Stage names used in logs.
const (
	StageReceived        = "received"
	StageModerated       = "moderated"
	StageAmountExtracted = "amount_extracted"
	StageClassified      = "classified"
	StageAssembled       = "assembled"
)

// Defaults applied when Options leave a value unset.
const (
	DefaultRemoteTimeout = 10 * time.Second
	DefaultMaxAttempts   = 1
)

// Gate is the moderation check run before anything else.
type Gate interface {
	Check(ctx context.Context, rawText string) models.ModerationVerdict
}

// Options tunes the pipeline.
type Options struct {
	RemoteTimeout time.Duration    // per remote attempt
	MaxAttempts   int              // remote attempts before falling back
	Clock         func() time.Time // draft timestamp source
}

// Result is a draft together with how it was produced.
type Result struct {
	Draft     models.Draft
	RequestID string
	Strategy  string // name of the strategy that produced the record
}

// Pipeline classifies messages. It is safe for concurrent use.
type Pipeline struct {
	gate   Gate
	vocab  *categorizer.VocabularyStore
	local  categorizer.CategorizationStrategy
	remote categorizer.CategorizationStrategy
	opts   Options
	logger logging.Logger
}

// New wires a pipeline. remote may be nil for local-only classification.
func New(gate Gate, vocab *categorizer.VocabularyStore, local, remote categorizer.CategorizationStrategy, opts Options, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = DefaultRemoteTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Pipeline{
		gate:   gate,
		vocab:  vocab,
		local:  local,
		remote: remote,
		opts:   opts,
		logger: logger,
	}
}

// Classify turns a message into a draft. Errors are rejections from
// classifyerror (empty message, moderation, amount, category) or a context
// error; remote failures are never returned.
func (p *Pipeline) Classify(ctx context.Context, message string) (models.Draft, error) {
	res, err := p.ClassifyDetailed(ctx, message)
	if err != nil {
		return models.Draft{}, err
	}
	return res.Draft, nil
}

// ClassifyDetailed is Classify returning the request id and producing strategy.
func (p *Pipeline) ClassifyDetailed(ctx context.Context, message string) (Result, error) {
	requestID := uuid.NewString()
	log := p.logger.WithField(logging.FieldRequestID, requestID)

	if strings.TrimSpace(message) == "" {
		return Result{RequestID: requestID}, classifyerror.ErrEmptyMessage
	}
	log.WithField(logging.FieldStage, StageReceived).Debug("Stage reached")

	if p.gate != nil {
		verdict := p.gate.Check(ctx, message)
		if verdict.Flagged {
			log.WithFields(
				logging.Field{Key: logging.FieldSource, Value: verdict.Source},
				logging.Field{Key: logging.FieldReason, Value: classifyerror.Reason(classifyerror.ErrModerationRejected)},
			).Info("Message rejected")
			return Result{RequestID: requestID}, &classifyerror.ModerationRejectedError{
				MatchedTerm: verdict.MatchedTerm,
				Source:      string(verdict.Source),
			}
		}
	}
	log.WithField(logging.FieldStage, StageModerated).Debug("Stage reached")

	amount, err := currencyutils.ExtractAmount(message)
	if err != nil {
		log.WithField(logging.FieldReason, classifyerror.Reason(err)).Info("Message rejected")
		return Result{RequestID: requestID}, err
	}
	log.WithFields(
		logging.Field{Key: logging.FieldStage, Value: StageAmountExtracted},
		logging.Field{Key: logging.FieldAmount, Value: amount.String()},
	).Debug("Stage reached")

	tx := categorizer.NewTransaction(message)
	vocab := p.vocab.Snapshot()

	results := p.classify(ctx, tx, vocab, log)
	if err := ctx.Err(); err != nil {
		return Result{RequestID: requestID}, err
	}
	log.WithFields(
		logging.Field{Key: logging.FieldStage, Value: StageClassified},
		logging.Field{Key: logging.FieldStrategy, Value: results.Summary()},
	).Debug("Stage reached")

	best, ok := results.GetBestResult()
	if !ok {
		err := localError(results)
		log.WithField(logging.FieldReason, classifyerror.Reason(err)).Info("Message rejected")
		return Result{RequestID: requestID}, err
	}

	if best.Strategy != results.Results[0].Strategy {
		if errs := results.GetErrors(); len(errs) > 0 {
			log.WithError(errors.Join(errs...)).WithField(logging.FieldStrategy, best.Strategy).
				Debug("Record built by fallback strategy")
		}
	}

	cls := best.Classification
	if !cls.Amount.IsZero() && !cls.Amount.Equal(amount) {
		log.WithFields(
			logging.Field{Key: logging.FieldAmount, Value: amount.String()},
			logging.Field{Key: "remote_amount", Value: cls.Amount.String()},
		).Debug("Remote amount differs from extracted amount, keeping extracted")
	}

	draft := models.Draft{
		Type:        cls.Type,
		Amount:      amount,
		Category:    cls.Category,
		Description: cls.Description,
		Date:        p.opts.Clock(),
	}
	if err := draft.Validate(); err != nil {
		return Result{RequestID: requestID}, fmt.Errorf("assembled draft is invalid: %w", err)
	}

	log.WithFields(
		logging.Field{Key: logging.FieldStage, Value: StageAssembled},
		logging.Field{Key: logging.FieldStrategy, Value: best.Strategy},
		logging.Field{Key: logging.FieldType, Value: draft.Type},
		logging.Field{Key: logging.FieldCategory, Value: draft.Category},
	).Info("Message classified")

	return Result{Draft: draft, RequestID: requestID, Strategy: best.Strategy}, nil
}

// classify runs the remote and local strategies in parallel. Results are in
// priority order: remote first.
func (p *Pipeline) classify(ctx context.Context, tx categorizer.Transaction, vocab *categorizer.Vocabulary, log logging.Logger) categorizer.StrategyResults {
	var (
		g                       errgroup.Group
		remoteCls, localCls     models.Classification
		remoteFound, localFound bool
		remoteErr, localErr     error
	)

	if p.remote != nil {
		g.Go(func() error {
			remoteCls, remoteFound, remoteErr = p.classifyRemote(ctx, tx, vocab, log)
			return nil
		})
	}
	g.Go(func() error {
		localCls, localFound, localErr = p.local.Categorize(ctx, tx, vocab)
		return nil
	})
	_ = g.Wait()

	var results categorizer.StrategyResults
	if p.remote != nil {
		results.Add(p.remote.Name(), remoteCls, remoteFound, remoteErr)
	}
	results.Add(p.local.Name(), localCls, localFound, localErr)
	return results
}

// classifyRemote calls the remote strategy up to MaxAttempts times, each with
// its own timeout.
func (p *Pipeline) classifyRemote(ctx context.Context, tx categorizer.Transaction, vocab *categorizer.Vocabulary, log logging.Logger) (models.Classification, bool, error) {
	var lastErr error
	for attempt := 1; attempt <= p.opts.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.opts.RemoteTimeout)
		cls, found, err := p.remote.Categorize(attemptCtx, tx, vocab)
		cancel()

		if err == nil {
			return cls, found, nil
		}
		lastErr = err

		log.WithError(err).WithFields(
			logging.Field{Key: logging.FieldStrategy, Value: p.remote.Name()},
			logging.Field{Key: logging.FieldAttempt, Value: attempt},
		).Debug("Remote classification attempt failed")

		if ctx.Err() != nil {
			break
		}
	}

	log.WithError(lastErr).WithField(logging.FieldStrategy, p.remote.Name()).
		Warn("Remote classification failed, falling back to local classifier")
	return models.Classification{}, false, lastErr
}

// localError picks the error to surface when no strategy succeeded: the local
// one, since remote failures are never surfaced.
func localError(results categorizer.StrategyResults) error {
	last := results.Results[len(results.Results)-1]
	if last.Error != nil {
		return last.Error
	}
	return &classifyerror.CategoryError{}
}
