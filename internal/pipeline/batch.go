package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"corpusprep/internal/model"
	"golang.org/x/sync/errgroup"
)

// fileFunc handles one file of a stage and reports what happened to it.
type fileFunc func(ctx context.Context, path string) model.Event

// processFiles runs fn for every file with at most run.Workers() calls in
// flight and records each resulting event. A panic while handling a file
// is turned into a failed event and the remaining files still run. The
// only error returned is the context error if the run was cancelled.
func processFiles(ctx context.Context, run *Run, stage model.Stage, files []string, fn fileFunc) error {
	logger := run.Logger().With("stage", stage)
	total := len(files)
	logger.Info("processing files",
		"total", total,
		"workers", run.Workers(),
	)

	var (
		g    errgroup.Group
		done atomic.Int64
	)
	g.SetLimit(run.Workers())

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			ev := safeProcess(ctx, stage, path, fn)
			run.Record(ctx, ev)

			n := done.Add(1)
			if ev.Outcome.Failed() {
				logger.Warn("skipping file",
					"file", path,
					"outcome", ev.Outcome,
					"error", ev.Detail,
					"progress", fmt.Sprintf("%d/%d", n, total),
				)
				return nil
			}
			logger.Debug("file done",
				"file", path,
				"outcome", ev.Outcome,
				"progress", fmt.Sprintf("%d/%d", n, total),
			)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // workers never return errors
	return ctx.Err()
}

func safeProcess(ctx context.Context, stage model.Stage, path string, fn fileFunc) (ev model.Event) {
	defer func() {
		if r := recover(); r != nil {
			ev = model.Event{
				Stage:   stage,
				File:    path,
				Outcome: model.OutcomeFailed,
				Detail:  fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return fn(ctx, path)
}
