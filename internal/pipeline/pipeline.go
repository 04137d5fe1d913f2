package pipeline

import (
	"context"
	"log/slog"

	"corpusprep/internal/model"
)

// Step is one stage of the pipeline.
type Step interface {
	// Do runs the stage. Per-file problems are recorded on run; an error
	// is returned only when the stage as a whole could not run.
	Do(ctx context.Context, run *Run) error

	// Stage identifies the step in logs, events and the run summary.
	Stage() model.Stage
}

// Pipeline executes steps strictly in order.
type Pipeline struct {
	steps []Step

	logger *slog.Logger

	// continueOnError keeps later steps running after a step failed.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for step-level messages.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError controls whether a failed step stops the pipeline.
// The default is to continue: the failure is recorded on the stage and the
// run ends with status partial.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: true,
	}
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

// AddSteps appends several steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// Stages returns the stage of every step in execution order.
func (p *Pipeline) Stages() []model.Stage {
	stages := make([]model.Stage, len(p.steps))
	for i, step := range p.steps {
		stages[i] = step.Stage()
	}
	return stages
}

// Execute runs every step against run and finishes its summary. The
// context is checked before each step; on cancellation the run is marked
// cancelled and the context error returned. With continueOnError disabled
// the first step error is returned and later steps are skipped.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"stage", step.Stage(),
				"reason", err,
			)
			run.Summary.Finish(model.RunCancelled)
			return err
		}

		p.logger.Info("executing step",
			"stage", step.Stage(),
			"run", run.ID,
		)
		run.Summary.BeginStage(step.Stage())

		if err := step.Do(ctx, run); err != nil {
			if ctx.Err() != nil {
				run.Summary.Finish(model.RunCancelled)
				return ctx.Err()
			}

			p.logger.Error("step failed",
				"stage", step.Stage(),
				"run", run.ID,
				"error", err,
			)
			run.Summary.FailStage(step.Stage(), err)
			if !p.continueOnError {
				run.Summary.Finish(model.RunPartial)
				return err
			}
			continue
		}

		p.logger.Debug("step completed",
			"stage", step.Stage(),
			"run", run.ID,
		)
	}

	run.Summary.Finish(model.RunComplete)
	return nil
}
