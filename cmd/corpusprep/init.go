package main

import (
	"fmt"
	"path/filepath"

	"corpusprep/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Init writes corpusprep.yaml with every setting at its default value and
example directory names.

Examples:
  # Create corpusprep.yaml in the current directory
  corpusprep init

  # Create the per-user file in the XDG config directory
  corpusprep init --global

  # Overwrite an existing file
  corpusprep init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile, "Output file path for the configuration")
	cmd.Flags().Bool("global", false, "Write to the XDG config directory instead")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	global, err := cmd.Flags().GetBool("global")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if global {
		outputPath = filepath.Join(config.XDGConfigDir(), config.DefaultConfigFile)
	}

	cfg := config.NewConfig()
	cfg.Paths = config.Paths{
		Input:      "lines",
		Output:     "normalized",
		Quarantine: "quarantine",
	}

	if err := config.WriteDefault(outputPath, cfg, force); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	return nil
}
