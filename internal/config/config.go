package config

import (
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths.
	AppName = "corpusprep"

	// DefaultHeight is the normalized line height in pixels.
	DefaultHeight = 48

	// DefaultBorderSize is the margin added around every normalized line.
	DefaultBorderSize = 1

	// DefaultStageDir is the work directory name created under the output
	// directory when no explicit work directory is configured.
	DefaultStageDir = ".stages"

	// DefaultWorkers of 0 means one worker per CPU.
	DefaultWorkers = 0
)

// Stage directory names under the work directory.
const (
	CropStageDir      = "1-crop"
	NormalizeStageDir = "2-normalize"
)

// CropPolicy selects how the contour union box is applied.
type CropPolicy string

const (
	// CropUnion crops to the union of all contour boxes.
	CropUnion CropPolicy = "union"
	// CropVertical crops rows only and keeps the full source width.
	CropVertical CropPolicy = "vertical"
)

// Valid reports whether p is a known crop policy.
func (p CropPolicy) Valid() bool {
	return p == CropUnion || p == CropVertical
}

// ResizePolicy selects the height normalization strategy.
type ResizePolicy string

const (
	// ResizePadded produces exactly the configured height and pads the width.
	ResizePadded ResizePolicy = "padded"
	// ResizeExactScale scales by an exact integer ratio; the output height is
	// the smallest proportional height not below the configured one.
	ResizeExactScale ResizePolicy = "exact-scale"
)

// Valid reports whether p is a known resize policy.
func (p ResizePolicy) Valid() bool {
	return p == ResizePadded || p == ResizeExactScale
}

// Position is where rename text is attached to a file name.
type Position string

const (
	PositionPrefix Position = "prefix"
	PositionSuffix Position = "suffix"
)

// Valid reports whether p is prefix or suffix.
func (p Position) Valid() bool {
	return p == PositionPrefix || p == PositionSuffix
}

// Paths holds the directories a run reads from and writes to.
type Paths struct {
	// Input holds the raw .tif scans and their .gt.txt transcripts.
	// Reconciliation prunes this directory in place.
	Input string `yaml:"input"`

	// Output receives the final bordered, bi-level images.
	Output string `yaml:"output"`

	// Quarantine receives output images that fail the purity check.
	Quarantine string `yaml:"quarantine"`

	// Work holds the per-stage intermediate directories.
	// Empty means <Output>/.stages.
	Work string `yaml:"work,omitempty"`
}

// CropConfig configures the contour cropper.
type CropConfig struct {
	Policy CropPolicy `yaml:"policy"`
}

// ResizeConfig configures height normalization.
type ResizeConfig struct {
	Height     int          `yaml:"height"`
	Policy     ResizePolicy `yaml:"policy"`
	Background Intensity    `yaml:"background"`
}

// BorderConfig configures the margin added after normalization.
type BorderConfig struct {
	Size int       `yaml:"size"`
	Fill Intensity `yaml:"fill"`
}

// RenameConfig configures the rename command.
type RenameConfig struct {
	Text     string   `yaml:"text"`
	Position Position `yaml:"position"`
}

// LedgerConfig configures the SQLite run ledger.
type LedgerConfig struct {
	Enabled bool `yaml:"enabled"`
	// Dir defaults to the XDG data directory.
	Dir string `yaml:"dir,omitempty"`
}

// Config holds every option of a corpusprep run.
type Config struct {
	Paths   Paths        `yaml:"paths"`
	Crop    CropConfig   `yaml:"crop"`
	Resize  ResizeConfig `yaml:"resize"`
	Border  BorderConfig `yaml:"border"`
	Rename  RenameConfig `yaml:"rename"`
	Workers int          `yaml:"workers"`
	Ledger  LedgerConfig `yaml:"ledger"`
}

// NewConfig returns a Config populated with defaults. Paths are left empty.
func NewConfig() Config {
	return Config{
		Crop: CropConfig{Policy: CropUnion},
		Resize: ResizeConfig{
			Height:     DefaultHeight,
			Policy:     ResizePadded,
			Background: White,
		},
		Border: BorderConfig{
			Size: DefaultBorderSize,
			Fill: White,
		},
		Rename:  RenameConfig{Position: PositionPrefix},
		Workers: DefaultWorkers,
		Ledger:  LedgerConfig{Enabled: true},
	}
}

// WorkDir returns the directory holding per-stage intermediates.
func (c Config) WorkDir() string {
	if c.Paths.Work != "" {
		return c.Paths.Work
	}
	return filepath.Join(c.Paths.Output, DefaultStageDir)
}

// StageDir returns the intermediate directory for the named stage.
func (c Config) StageDir(name string) string {
	return filepath.Join(c.WorkDir(), name)
}

// WorkerCount resolves Workers to a positive number of goroutines.
func (c Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// LedgerDir returns the directory of the run ledger database.
func (c Config) LedgerDir() string {
	if c.Ledger.Dir != "" {
		return c.Ledger.Dir
	}
	return XDGDataDir()
}

// XDGDataDir returns the XDG data directory for corpusprep
// (~/.local/share/corpusprep on Linux).
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for corpusprep
// (~/.config/corpusprep on Linux).
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c Config) Validate() error {
	if c.Paths.Input == "" {
		return ErrNoInput
	}
	if c.Paths.Output == "" {
		return ErrNoOutput
	}
	if c.Paths.Quarantine == "" {
		return ErrNoQuarantine
	}
	if samePath(c.Paths.Input, c.Paths.Output) ||
		samePath(c.Paths.Output, c.Paths.Quarantine) ||
		samePath(c.Paths.Input, c.Paths.Quarantine) {
		return ErrSameDirectory
	}
	return c.ValidateSettings()
}

// ValidateSettings checks everything except the paths. Single-stage
// commands, which take their directories as arguments, use it instead of
// Validate.
func (c Config) ValidateSettings() error {
	if c.Resize.Height <= 0 {
		return ErrInvalidHeight
	}
	if !c.Resize.Policy.Valid() {
		return ErrInvalidResizePolicy
	}
	if !c.Crop.Policy.Valid() {
		return ErrInvalidCropPolicy
	}
	if c.Border.Size < 0 {
		return ErrInvalidBorder
	}
	if !c.Rename.Position.Valid() {
		return ErrInvalidPosition
	}
	if c.Workers < 0 {
		return ErrInvalidWorkers
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
