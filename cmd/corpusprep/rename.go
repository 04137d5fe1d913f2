package main

import (
	"fmt"
	"strings"

	"corpusprep/internal/dataset"
	"corpusprep/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewRenameCmd creates the rename command.
func NewRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <dir>",
		Short: "Add a prefix or suffix to every file name in a directory",
		Long: `Rename adds --text to the name of every file in the directory, either
before the name (prefix: <text>_<name>.tif) or before the extension
(suffix: <name>_<text>.tif). The transcript extension .gt.txt is kept
whole, so image and transcript stay paired. Files that already carry the
text are skipped and existing files are never overwritten.

Examples:
  corpusprep rename lines --text book07
  corpusprep rename lines --text p12 --position suffix`,
		Args: cobra.ExactArgs(1),
		RunE: runRenameCmd,
	}

	addSettingFlags(cmd.Flags(), "text", "position")
	addReportFlags(cmd.Flags())
	return cmd
}

func runRenameCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Paths.Input = args[0]
	cfg.Paths.Output = args[0]

	if strings.TrimSpace(cfg.Rename.Text) == "" {
		return fmt.Errorf("configuration error: %w (use --text)", dataset.ErrEmptyRenameText)
	}
	if err := cfg.ValidateSettings(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	opts, err := reportOptions(cmd.Flags())
	if err != nil {
		return err
	}
	return executeSteps(cmd, cfg, opts, pipeline.NewRenameStep(args[0], cfg.Rename.Text, cfg.Rename.Position))
}
