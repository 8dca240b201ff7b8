package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/seoscan/internal/model"
)

// Step is one stage of an audit.
type Step interface {
	// Do runs the step. A returned error is recorded on the audit.
	Do(ctx context.Context, audit *model.Audit) error

	// Name identifies the step in logs and in Audit.PerformedSteps.
	Name() string
}

// Pipeline runs steps in order.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running later steps after a step fails. The
// error is still recorded on the audit.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New returns an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step over audit. It stops at the first failing step
// unless continue-on-error is set, and before any step once ctx is done.
func (p *Pipeline) Execute(ctx context.Context, audit *model.Audit) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"target", audit.Target,
				"reason", err,
			)
			audit.Error = err
			audit.ErrorMessage = err.Error()
			return err
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"target", audit.Target,
		)

		if err := step.Do(ctx, audit); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"target", audit.Target,
				"error", err,
			)
			audit.Error = err
			audit.ErrorMessage = err.Error()
			if !p.continueOnError {
				return err
			}
		}

		audit.PerformedSteps = append(audit.PerformedSteps, step.Name())
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
