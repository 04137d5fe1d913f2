package pipeline

import (
	"context"
	"log/slog"
	"time"

	"corpusprep/internal/config"
	"corpusprep/internal/model"
)

// Recorder persists per-file events, typically into the run ledger.
type Recorder interface {
	Record(ctx context.Context, runID string, ev model.Event) error
}

// Run carries the state shared by all steps of one pipeline execution.
type Run struct {
	// ID identifies the run in logs and in the ledger.
	ID string
	// Config is the validated configuration of the run. Steps receive it
	// by value and never modify it.
	Config config.Config
	// Summary aggregates every recorded event.
	Summary *model.RunSummary

	recorder Recorder
	logger   *slog.Logger
}

// RunOption configures a Run.
type RunOption func(*Run)

// WithRecorder sends every event to rec in addition to the summary.
func WithRecorder(rec Recorder) RunOption {
	return func(r *Run) {
		r.recorder = rec
	}
}

// WithRunLogger sets the logger steps use while processing files.
func WithRunLogger(logger *slog.Logger) RunOption {
	return func(r *Run) {
		r.logger = logger
	}
}

// NewRun creates a run with the given id and configuration.
func NewRun(id string, cfg config.Config, opts ...RunOption) *Run {
	r := &Run{
		ID:      id,
		Config:  cfg,
		Summary: model.NewRunSummary(id, cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Quarantine),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Logger returns the run logger.
func (r *Run) Logger() *slog.Logger {
	return r.logger
}

// Workers returns the number of files a step may process at once.
func (r *Run) Workers() int {
	return r.Config.WorkerCount()
}

// Record stamps ev, adds it to the summary and forwards it to the
// recorder. A recorder failure is logged and otherwise ignored so that a
// broken ledger never stops the corpus from being processed.
func (r *Run) Record(ctx context.Context, ev model.Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	r.Summary.Add(ev)

	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(context.WithoutCancel(ctx), r.ID, ev); err != nil {
		r.logger.Warn("failed to record event",
			"stage", ev.Stage,
			"file", ev.File,
			"error", err,
		)
	}
}
