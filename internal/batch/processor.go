// Package batch classifies many messages with a bounded worker pool and writes
// the outcome as a CSV report.
package batch

import (
	"context"
	"runtime"
	"sync"

	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/pipeline"
)

// sequentialThreshold is the input size below which workers are not worth it.
const sequentialThreshold = 4

// Classifier is the pipeline operation the processor drives.
type Classifier interface {
	ClassifyDetailed(ctx context.Context, message string) (pipeline.Result, error)
}

// Outcome is the result of classifying one input message.
type Outcome struct {
	Line    int // 1-based position in the input
	Message string
	Result  pipeline.Result
	Err     error
}

// Processor runs a Classifier over a list of messages.
type Processor struct {
	classifier  Classifier
	workerCount int
	logger      logging.Logger
}

// NewProcessor creates a processor. A non-positive workerCount uses the number
// of CPUs.
func NewProcessor(classifier Classifier, workerCount int, logger logging.Logger) *Processor {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Processor{
		classifier:  classifier,
		workerCount: workerCount,
		logger:      logger,
	}
}

// Process classifies every message and returns one outcome per message in
// input order. Messages not started before ctx is cancelled get ctx's error.
func (p *Processor) Process(ctx context.Context, messages []string) []Outcome {
	if len(messages) < sequentialThreshold || p.workerCount == 1 {
		return p.processSequential(ctx, messages)
	}
	return p.processConcurrent(ctx, messages)
}

func (p *Processor) processSequential(ctx context.Context, messages []string) []Outcome {
	outcomes := make([]Outcome, len(messages))
	for i, msg := range messages {
		outcomes[i] = p.classify(ctx, i, msg)
	}
	return outcomes
}

// job carries the input index so results land in their original slot.
type job struct {
	index   int
	message string
}

func (p *Processor) processConcurrent(ctx context.Context, messages []string) []Outcome {
	outcomes := make([]Outcome, len(messages))
	jobs := make(chan job, p.workerCount)

	workers := p.workerCount
	if workers > len(messages) {
		workers = len(messages)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				outcomes[j.index] = p.classify(ctx, j.index, j.message)
			}
		}()
	}

	for i, msg := range messages {
		jobs <- job{index: i, message: msg}
	}
	close(jobs)
	wg.Wait()

	p.logger.Debug("Concurrent processing completed",
		logging.Field{Key: logging.FieldCount, Value: len(messages)},
		logging.Field{Key: "workers", Value: workers})

	return outcomes
}

func (p *Processor) classify(ctx context.Context, index int, message string) Outcome {
	outcome := Outcome{Line: index + 1, Message: message}
	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Result, outcome.Err = p.classifier.ClassifyDetailed(ctx, message)
	return outcome
}
