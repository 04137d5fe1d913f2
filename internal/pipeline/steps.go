package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"corpusprep/internal/config"
	"corpusprep/internal/dataset"
	"corpusprep/internal/model"
	"corpusprep/internal/transform"
	"gocv.io/x/gocv"
)

// applyFunc transforms one decoded image. It returns the image to write,
// the outcome to record and a short detail for the event.
type applyFunc func(img gocv.Mat) (gocv.Mat, model.Outcome, string, error)

// ImageStep reads every line image of a source directory, transforms it
// and writes the result under the same name into a destination directory.
type ImageStep struct {
	stage    model.Stage
	src, dst string
	readFlag gocv.IMReadFlag
	clean    bool
	apply    applyFunc
}

// ImageStepOption configures an ImageStep.
type ImageStepOption func(*ImageStep)

// WithCleanDestination empties the destination directory before the step
// writes into it, so that files removed upstream do not linger from an
// earlier run. It has no effect when source and destination are the same.
func WithCleanDestination() ImageStepOption {
	return func(s *ImageStep) {
		s.clean = true
	}
}

func newImageStep(stage model.Stage, src, dst string, flag gocv.IMReadFlag, apply applyFunc, opts []ImageStepOption) *ImageStep {
	s := &ImageStep{
		stage:    stage,
		src:      src,
		dst:      dst,
		readFlag: flag,
		apply:    apply,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewCropStep removes the background margins of every image in src.
func NewCropStep(src, dst string, policy config.CropPolicy, opts ...ImageStepOption) *ImageStep {
	apply := func(img gocv.Mat) (gocv.Mat, model.Outcome, string, error) {
		out, res, err := transform.Crop(img, policy)
		if err != nil {
			return gocv.Mat{}, "", "", err
		}
		switch {
		case !res.Found():
			return out, model.OutcomeUncropped, ErrEmptyGeometry.Error(), nil
		case !res.Cropped:
			return out, model.OutcomeProcessed, fmt.Sprintf("%d contours, already tight", res.Contours), nil
		}
		return out, model.OutcomeProcessed, fmt.Sprintf("%d contours, kept %v", res.Contours, res.Region), nil
	}
	return newImageStep(model.StageCrop, src, dst, gocv.IMReadColor, apply, opts)
}

// NewNormalizeStep brings every image in src to the configured height.
func NewNormalizeStep(src, dst string, nopts transform.NormalizeOptions, opts ...ImageStepOption) *ImageStep {
	apply := func(img gocv.Mat) (gocv.Mat, model.Outcome, string, error) {
		out, plan, err := transform.Normalize(img, nopts)
		if err != nil {
			return gocv.Mat{}, "", "", err
		}
		return out, model.OutcomeProcessed, plan.String(), nil
	}
	return newImageStep(model.StageNormalize, src, dst, gocv.IMReadGrayScale, apply, opts)
}

// NewBorderStep surrounds every image in src with a constant border.
func NewBorderStep(src, dst string, size int, fill config.Intensity, opts ...ImageStepOption) *ImageStep {
	apply := func(img gocv.Mat) (gocv.Mat, model.Outcome, string, error) {
		out, err := transform.AddBorder(img, size, fill)
		if err != nil {
			return gocv.Mat{}, "", "", err
		}
		return out, model.OutcomeProcessed, "", nil
	}
	return newImageStep(model.StageBorder, src, dst, gocv.IMReadGrayScale, apply, opts)
}

// Stage implements Step.
func (s *ImageStep) Stage() model.Stage {
	return s.stage
}

// Do implements Step.
func (s *ImageStep) Do(ctx context.Context, run *Run) error {
	files, err := dataset.ListImages(s.src)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrSourceDir, s.src, err)
	}
	if err := s.prepare(); err != nil {
		return fmt.Errorf("%w %s: %w", ErrDestinationDir, s.dst, err)
	}
	return processFiles(ctx, run, s.stage, files, s.processFile)
}

func (s *ImageStep) prepare() error {
	if s.clean && !samePath(s.src, s.dst) {
		if err := os.RemoveAll(s.dst); err != nil {
			return err
		}
	}
	return os.MkdirAll(s.dst, 0o750)
}

func (s *ImageStep) processFile(_ context.Context, path string) model.Event {
	ev := model.Event{Stage: s.stage, File: path}

	img, err := transform.Load(path, s.readFlag)
	if err != nil {
		ev.Outcome = model.OutcomeDecodeFailed
		ev.Detail = err.Error()
		return ev
	}
	defer img.Close()

	out, outcome, detail, err := s.apply(img)
	if err != nil {
		ev.Outcome = model.OutcomeFailed
		ev.Detail = err.Error()
		return ev
	}
	defer out.Close()

	if err := transform.Save(filepath.Join(s.dst, filepath.Base(path)), out); err != nil {
		ev.Outcome = model.OutcomeFailed
		ev.Detail = err.Error()
		return ev
	}

	ev.Outcome = outcome
	ev.Detail = detail
	return ev
}

// PurityStep moves every image of a directory that is not strictly
// bi-level into a quarantine directory.
type PurityStep struct {
	dir, quarantine string
}

// NewPurityStep checks the images in dir and quarantines impure ones.
func NewPurityStep(dir, quarantine string) *PurityStep {
	return &PurityStep{dir: dir, quarantine: quarantine}
}

// Stage implements Step.
func (s *PurityStep) Stage() model.Stage {
	return model.StagePurity
}

// Do implements Step.
func (s *PurityStep) Do(ctx context.Context, run *Run) error {
	files, err := dataset.ListImages(s.dir)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrSourceDir, s.dir, err)
	}
	if err := os.MkdirAll(s.quarantine, 0o750); err != nil {
		return fmt.Errorf("%w %s: %w", ErrDestinationDir, s.quarantine, err)
	}

	logger := run.Logger().With("stage", model.StagePurity)
	return processFiles(ctx, run, model.StagePurity, files, func(_ context.Context, path string) model.Event {
		ev := model.Event{Stage: model.StagePurity, File: path}

		img, err := transform.Load(path, gocv.IMReadGrayScale)
		if err != nil {
			ev.Outcome = model.OutcomeDecodeFailed
			ev.Detail = err.Error()
			return ev
		}
		ok, err := transform.IsBiLevel(img)
		img.Close()
		if err != nil {
			ev.Outcome = model.OutcomeFailed
			ev.Detail = err.Error()
			return ev
		}
		if ok {
			ev.Outcome = model.OutcomeKept
			return ev
		}

		dst := filepath.Join(s.quarantine, filepath.Base(path))
		if err := dataset.MoveFile(path, dst); err != nil {
			ev.Outcome = model.OutcomeFailed
			ev.Detail = fmt.Sprintf("quarantine: %v", err)
			return ev
		}
		logger.Info("quarantined image", "from", path, "to", dst)
		ev.Outcome = model.OutcomeQuarantined
		ev.Detail = fmt.Sprintf("%v, moved to %s", ErrNonBinaryOutput, dst)
		return ev
	})
}

// ReconcileStep deletes unpaired images and transcripts of a directory.
type ReconcileStep struct {
	dir      string
	dryRun   bool
	staleDir string
}

// ReconcileStepOption configures a ReconcileStep.
type ReconcileStepOption func(*ReconcileStep)

// WithStaleCheck reports the images of dir whose counterpart in the
// reconciled directory was unmatched. They are recorded as stale and left
// in place.
func WithStaleCheck(dir string) ReconcileStepOption {
	return func(s *ReconcileStep) {
		s.staleDir = dir
	}
}

// NewReconcileStep reconciles dir. With dryRun the unmatched files are
// only reported.
func NewReconcileStep(dir string, dryRun bool, opts ...ReconcileStepOption) *ReconcileStep {
	s := &ReconcileStep{dir: dir, dryRun: dryRun}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stage implements Step.
func (s *ReconcileStep) Stage() model.Stage {
	return model.StageReconcile
}

// Do implements Step.
func (s *ReconcileStep) Do(ctx context.Context, run *Run) error {
	logger := run.Logger().With("stage", model.StageReconcile)
	outcome := model.OutcomeDeleted
	if s.dryRun {
		outcome = model.OutcomeWouldDelete
	}

	res, err := dataset.Reconcile(ctx, s.dir, dataset.ReconcileOptions{
		DryRun: s.dryRun,
		Logger: logger,
		OnDelete: func(path string) {
			run.Record(ctx, model.Event{
				Stage:   model.StageReconcile,
				File:    path,
				Outcome: outcome,
				Detail:  ErrUnmatchedArtifact.Error(),
			})
		},
	})
	for _, base := range res.Matched {
		run.Record(ctx, model.Event{
			Stage:   model.StageReconcile,
			File:    base,
			Outcome: model.OutcomeKept,
		})
	}
	if s.staleDir != "" && !samePath(s.staleDir, s.dir) {
		for _, path := range res.UnmatchedImages {
			stale := filepath.Join(s.staleDir, filepath.Base(path))
			if _, statErr := os.Stat(stale); statErr != nil {
				continue
			}
			logger.Warn("output image has no transcript", "path", stale, "source", path)
			run.Record(ctx, model.Event{
				Stage:   model.StageReconcile,
				File:    stale,
				Outcome: model.OutcomeStale,
				Detail:  fmt.Sprintf("%v in %s", ErrUnmatchedArtifact, s.dir),
			})
		}
	}
	return err
}

// RenameStep attaches text to the name of every file in a directory.
type RenameStep struct {
	dir      string
	text     string
	position config.Position
}

// NewRenameStep renames the files of dir.
func NewRenameStep(dir, text string, position config.Position) *RenameStep {
	return &RenameStep{dir: dir, text: text, position: position}
}

// Stage implements Step.
func (s *RenameStep) Stage() model.Stage {
	return model.StageRename
}

// Do implements Step.
func (s *RenameStep) Do(ctx context.Context, run *Run) error {
	_, err := dataset.Rename(ctx, s.dir, s.text, s.position, dataset.RenameOptions{
		Logger: run.Logger().With("stage", model.StageRename),
		OnRename: func(from, to string) {
			run.Record(ctx, model.Event{
				Stage:   model.StageRename,
				File:    from,
				Outcome: model.OutcomeRenamed,
				Detail:  to,
			})
		},
	})
	return err
}

// Standard returns the full normalization pipeline for cfg: crop and
// normalize into the stage directories, border into the output directory,
// purity filtering of the output, and reconciliation of the input. Output
// images whose input lost its transcript are reported as stale.
func Standard(cfg config.Config, dryRunReconcile bool) []Step {
	cropDir := cfg.StageDir(config.CropStageDir)
	normDir := cfg.StageDir(config.NormalizeStageDir)

	return []Step{
		NewCropStep(cfg.Paths.Input, cropDir, cfg.Crop.Policy, WithCleanDestination()),
		NewNormalizeStep(cropDir, normDir, transform.NormalizeOptionsFrom(cfg), WithCleanDestination()),
		NewBorderStep(normDir, cfg.Paths.Output, cfg.Border.Size, cfg.Border.Fill),
		NewPurityStep(cfg.Paths.Output, cfg.Paths.Quarantine),
		NewReconcileStep(cfg.Paths.Input, dryRunReconcile, WithStaleCheck(cfg.Paths.Output)),
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
