package main

import (
	"fmt"
	"path/filepath"

	"corpusprep/internal/config"
	"corpusprep/internal/pipeline"
	"corpusprep/internal/transform"
	"github.com/spf13/cobra"
)

// NewStageCmds creates one command per pipeline stage.
func NewStageCmds() []*cobra.Command {
	return []*cobra.Command{
		newCropCmd(),
		newNormalizeCmd(),
		newBorderCmd(),
		newFilterCmd(),
		newReconcileCmd(),
	}
}

// stageConfig builds the configuration of a single-stage command. The
// first argument is the source directory; the second, when present, the
// destination, which otherwise equals the source.
func stageConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return config.Config{}, err
	}

	cfg.Paths.Input = args[0]
	cfg.Paths.Output = args[0]
	if len(args) > 1 {
		cfg.Paths.Output = args[1]
	}
	cfg.Paths.Quarantine = ""

	if err := cfg.ValidateSettings(); err != nil {
		return config.Config{}, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// newStageCmd wires a single-stage command: flags, config and execution.
func newStageCmd(use, short, long string, posArgs cobra.PositionalArgs, settings []string,
	build func(cmd *cobra.Command, cfg config.Config) (config.Config, pipeline.Step, error),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  posArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := stageConfig(cmd, args)
			if err != nil {
				return err
			}
			cfg, step, err := build(cmd, cfg)
			if err != nil {
				return err
			}
			opts, err := reportOptions(cmd.Flags())
			if err != nil {
				return err
			}
			return executeSteps(cmd, cfg, opts, step)
		},
	}
	addSettingFlags(cmd.Flags(), append(settings, "workers")...)
	addReportFlags(cmd.Flags())
	return cmd
}

func newCropCmd() *cobra.Command {
	return newStageCmd(
		"crop <input-dir> [output-dir]",
		"Crop every line image to its text",
		`Crop binarizes each image with Otsu's method, finds the external contours
of the dark foreground and keeps the union of their bounding boxes. With
--crop-policy vertical only the rows above and below the text are removed.
Images without foreground are copied unchanged. Without an output
directory the images are cropped in place.`,
		cobra.RangeArgs(1, 2),
		[]string{"crop-policy"},
		func(_ *cobra.Command, cfg config.Config) (config.Config, pipeline.Step, error) {
			return cfg, pipeline.NewCropStep(cfg.Paths.Input, cfg.Paths.Output, cfg.Crop.Policy), nil
		},
	)
}

func newNormalizeCmd() *cobra.Command {
	return newStageCmd(
		"normalize <input-dir> [output-dir]",
		"Scale every line image to the target height",
		`Normalize resamples each image with nearest-neighbour interpolation to
the target height, pads the fractional width remainder with the background
intensity and re-thresholds the result at 127 so it only holds black and
white. With --resize-policy exact-scale the image is instead scaled by a
whole factor of its reduced aspect ratio and no padding is added.`,
		cobra.RangeArgs(1, 2),
		[]string{"height", "resize-policy", "background"},
		func(_ *cobra.Command, cfg config.Config) (config.Config, pipeline.Step, error) {
			opts := transform.NormalizeOptionsFrom(cfg)
			return cfg, pipeline.NewNormalizeStep(cfg.Paths.Input, cfg.Paths.Output, opts), nil
		},
	)
}

func newBorderCmd() *cobra.Command {
	return newStageCmd(
		"border <input-dir> [output-dir]",
		"Add a constant border around every line image",
		`Border surrounds each image with --border pixels of --fill intensity on
all four sides.`,
		cobra.RangeArgs(1, 2),
		[]string{"border", "fill"},
		func(_ *cobra.Command, cfg config.Config) (config.Config, pipeline.Step, error) {
			return cfg, pipeline.NewBorderStep(cfg.Paths.Input, cfg.Paths.Output, cfg.Border.Size, cfg.Border.Fill), nil
		},
	)
}

func newFilterCmd() *cobra.Command {
	return newStageCmd(
		"filter <dir> [quarantine-dir]",
		"Move images that are not strictly black and white into quarantine",
		`Filter loads each image as grayscale and moves it into the quarantine
directory unless its pixel values are exactly {0, 255}. The quarantine
directory defaults to <dir>/quarantine. Files that cannot be decoded are
left in place.`,
		cobra.RangeArgs(1, 2),
		nil,
		func(_ *cobra.Command, cfg config.Config) (config.Config, pipeline.Step, error) {
			quarantine := filepath.Join(cfg.Paths.Input, "quarantine")
			if cfg.Paths.Output != cfg.Paths.Input {
				quarantine = cfg.Paths.Output
			}
			cfg.Paths.Output = cfg.Paths.Input
			cfg.Paths.Quarantine = quarantine
			return cfg, pipeline.NewPurityStep(cfg.Paths.Input, quarantine), nil
		},
	)
}

func newReconcileCmd() *cobra.Command {
	cmd := newStageCmd(
		"reconcile <dir>",
		"Delete images without transcripts and transcripts without images",
		`Reconcile pairs every <name>.tif with <name>.gt.txt and deletes the files
that have no partner. Deletion is permanent; use --dry-run to see what
would be removed.`,
		cobra.ExactArgs(1),
		nil,
		func(cmd *cobra.Command, cfg config.Config) (config.Config, pipeline.Step, error) {
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return cfg, nil, err
			}
			return cfg, pipeline.NewReconcileStep(cfg.Paths.Input, dryRun, pipeline.WithStaleCheck(cfg.Paths.Output)), nil
		},
	)
	cmd.Flags().Bool("dry-run", false, "Only report the files that would be deleted")
	return cmd
}
