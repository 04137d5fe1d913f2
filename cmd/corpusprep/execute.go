package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"corpusprep/internal/config"
	"corpusprep/internal/ledger"
	"corpusprep/internal/model"
	"corpusprep/internal/pipeline"
	"corpusprep/internal/report"
	"github.com/spf13/cobra"
)

// errPartialRun is returned when every stage ran but at least one failed.
var errPartialRun = errors.New("run finished with failed stages")

// runOptions controls what happens around a pipeline execution.
type runOptions struct {
	reportPath string
	jsonOut    bool
	noLedger   bool
}

// executeSteps runs steps as one recorded run and prints its summary.
func executeSteps(cmd *cobra.Command, cfg config.Config, opts runOptions, steps ...pipeline.Step) error {
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	runID := ledger.NewRunID()
	runOpts := []pipeline.RunOption{pipeline.WithRunLogger(logger.With("run", runID))}

	var led *ledger.Ledger
	if cfg.Ledger.Enabled && !opts.noLedger {
		led = openLedger(ctx, cfg, runID, logger)
		if led != nil {
			defer led.Close()
			runOpts = append(runOpts, pipeline.WithRecorder(led))
		}
	}

	run := pipeline.NewRun(runID, cfg, runOpts...)
	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(steps...)

	logger.Info("starting run",
		"run", runID,
		"stages", p.Stages(),
		"workers", cfg.WorkerCount(),
	)
	execErr := p.Execute(ctx, run)

	if led != nil {
		if err := led.FinishRun(context.WithoutCancel(ctx), runID, run.Summary.Status); err != nil {
			logger.Warn("failed to finish ledger run", "error", err)
		}
	}

	if err := writeReports(cmd.OutOrStdout(), run.Summary, opts); err != nil {
		return err
	}
	if execErr != nil {
		return execErr
	}
	if run.Summary.Status == model.RunPartial {
		return errPartialRun
	}
	return nil
}

// openLedger opens the ledger and registers the run. A ledger that cannot
// be opened is logged and the run continues without it.
func openLedger(ctx context.Context, cfg config.Config, runID string, logger *slog.Logger) *ledger.Ledger {
	led, err := ledger.Open(cfg.LedgerDir())
	if err != nil {
		logger.Warn("ledger unavailable, continuing without it", "error", err)
		return nil
	}
	if _, err := led.StartRunWithID(ctx, runID, cfg); err != nil {
		logger.Warn("failed to register run in ledger", "error", err)
		_ = led.Close()
		return nil
	}
	return led
}

// writeReports prints the summary to out and, when requested, writes the
// Markdown report file.
func writeReports(out io.Writer, summary *model.RunSummary, opts runOptions) error {
	if opts.reportPath != "" {
		if err := writeMarkdownReport(opts.reportPath, summary); err != nil {
			return err
		}
	}

	var w report.Writer = report.NewSimpleWriter(out)
	if opts.jsonOut {
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	}
	_, err := w.Write(summary)
	return err
}

func writeMarkdownReport(path string, summary *model.RunSummary) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // user-provided report path
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if _, err := report.NewMarkdownWriter(f).Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
