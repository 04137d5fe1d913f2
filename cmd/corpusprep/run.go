package main

import (
	"fmt"

	"corpusprep/internal/config"
	"corpusprep/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full normalization pipeline",
		Long: `Run executes every stage in order:

  crop       input      -> <work>/1-crop
  normalize  1-crop     -> <work>/2-normalize
  border     2-normalize -> output
  filter     output     -> quarantine (impure images are moved)
  reconcile  input      (unpaired images and transcripts are deleted)

The work directory defaults to <output>/.stages. Each stage rewrites its own
directory, so a run can be repeated safely.

Examples:
  # Use corpusprep.yaml from the current directory
  corpusprep run

  # Everything from flags
  corpusprep run -i raw -o train -q rejected --height 48 --border 1

  # Check which files reconciliation would delete
  corpusprep run --dry-run-reconcile --report run.md`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "", "Directory with the source line images and transcripts")
	flags.StringP("output", "o", "", "Directory for the normalized images")
	flags.StringP("quarantine", "q", "", "Directory receiving images that are not bi-level")
	flags.String("work-dir", "", "Directory for stage intermediates (default: <output>/.stages)")
	addSettingFlags(flags, "height", "resize-policy", "background", "crop-policy", "border", "fill", "workers")
	flags.Bool("dry-run-reconcile", false, "Only report the files reconciliation would delete")
	addReportFlags(flags)

	return cmd
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	dryRun, err := cmd.Flags().GetBool("dry-run-reconcile")
	if err != nil {
		return err
	}
	opts, err := reportOptions(cmd.Flags())
	if err != nil {
		return err
	}

	return executeSteps(cmd, cfg, opts, pipeline.Standard(cfg, dryRun)...)
}

// buildConfig loads the configuration file and applies the flags the user
// set on top of it.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, err
	}
	if err := applySettingFlags(cmd.Flags(), &cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
