package main

import (
	"fmt"

	"corpusprep/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// loadConfig returns the defaults overlaid with the configuration file.
// An explicit --config that does not exist is an error; without --config a
// missing file silently leaves the defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}

	path := config.FindConfigFile(configPath)
	switch {
	case path != "":
		cfg, err := config.LoadFile(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		return cfg, nil
	case configPath != "":
		return config.Config{}, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	default:
		return config.NewConfig(), nil
	}
}

// addSettingFlags registers the flags that override configuration values.
// Only flags the user actually set are applied by applySettingFlags, so
// their defaults here are informational.
func addSettingFlags(flags *pflag.FlagSet, names ...string) {
	defaults := config.NewConfig()
	for _, name := range names {
		switch name {
		case "height":
			flags.Int(name, defaults.Resize.Height, "Target line height in pixels")
		case "resize-policy":
			flags.String(name, string(defaults.Resize.Policy), "Height normalization policy (padded, exact-scale)")
		case "background":
			bg := defaults.Resize.Background
			flags.Var(&bg, name, "Padding intensity for normalization (white, black or 0-255)")
		case "crop-policy":
			flags.String(name, string(defaults.Crop.Policy), "Crop policy (union, vertical)")
		case "border":
			flags.Int(name, defaults.Border.Size, "Border width in pixels")
		case "fill":
			fill := defaults.Border.Fill
			flags.Var(&fill, name, "Border intensity (white, black or 0-255)")
		case "workers":
			flags.IntP(name, "w", defaults.Workers, "Files processed in parallel (0 = number of CPUs)")
		case "text":
			flags.String(name, "", "Text to add to every file name")
		case "position":
			flags.String(name, string(defaults.Rename.Position), "Where to add the text (prefix, suffix)")
		}
	}
}

// applySettingFlags copies every changed setting flag into cfg.
func applySettingFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "height":
			cfg.Resize.Height, err = flags.GetInt(f.Name)
		case "resize-policy":
			cfg.Resize.Policy = config.ResizePolicy(f.Value.String())
		case "background":
			cfg.Resize.Background, err = config.ParseIntensity(f.Value.String())
		case "crop-policy":
			cfg.Crop.Policy = config.CropPolicy(f.Value.String())
		case "border":
			cfg.Border.Size, err = flags.GetInt(f.Name)
		case "fill":
			cfg.Border.Fill, err = config.ParseIntensity(f.Value.String())
		case "workers":
			cfg.Workers, err = flags.GetInt(f.Name)
		case "text":
			cfg.Rename.Text = f.Value.String()
		case "position":
			cfg.Rename.Position = config.Position(f.Value.String())
		case "input":
			cfg.Paths.Input = f.Value.String()
		case "output":
			cfg.Paths.Output = f.Value.String()
		case "quarantine":
			cfg.Paths.Quarantine = f.Value.String()
		case "work-dir":
			cfg.Paths.Work = f.Value.String()
		case "ledger-dir":
			cfg.Ledger.Dir = f.Value.String()
		}
	})
	return err
}

// addReportFlags registers the flags controlling the run summary and the
// ledger.
func addReportFlags(flags *pflag.FlagSet) {
	flags.String("report", "", "Write a Markdown report to this file")
	flags.Bool("json", false, "Print the run summary as JSON")
	flags.Bool("no-ledger", false, "Do not record the run in the ledger")
	flags.String("ledger-dir", "", "Directory of the run ledger (default: XDG data directory)")
}

// reportOptions reads the flags registered by addReportFlags.
func reportOptions(flags *pflag.FlagSet) (runOptions, error) {
	var (
		opts runOptions
		err  error
	)
	if opts.reportPath, err = flags.GetString("report"); err != nil {
		return opts, err
	}
	if opts.jsonOut, err = flags.GetBool("json"); err != nil {
		return opts, err
	}
	if opts.noLedger, err = flags.GetBool("no-ledger"); err != nil {
		return opts, err
	}
	return opts, nil
}
