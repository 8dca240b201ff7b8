package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seoscan/internal/model"
)

// DefaultBatchConcurrency is the number of output roots audited at once.
const DefaultBatchConcurrency = 4

// BatchProcessor audits several output roots concurrently, each through a
// fresh pipeline from the factory.
type BatchProcessor struct {
	pipelineFactory func() *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets how many roots are audited at once.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor returns a BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch audits every target and returns the audits in target order.
// A failed audit carries its error and a Result, and the other targets
// still run. The returned error is only set when ctx is cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.Audit, error) {
	audits := make([]*model.Audit, len(targets))
	err := bp.ProcessBatchWithCallback(ctx, targets, func(audit *model.Audit, i int) {
		audits[i] = audit
	})
	return audits, err
}

// ProcessBatchWithCallback audits every target and calls callback from the
// goroutine that finished it. callback must be safe for concurrent use
// unless it only writes to its own index.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(audit *model.Audit, index int),
) error {
	bp.logger.Debug("starting batch",
		"targets", len(targets),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			audit := model.NewAudit(target)
			if err := bp.pipelineFactory().Execute(ctx, audit); err != nil {
				bp.logger.Warn("audit failed", "target", target, "error", err)
			}
			if audit.Result == nil {
				audit.Duration = time.Since(audit.DateScanned)
				audit.Summarize()
			}
			callback(audit, i)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Debug("batch complete",
		"targets", len(targets),
		"elapsed", time.Since(start),
	)
	return err
}
