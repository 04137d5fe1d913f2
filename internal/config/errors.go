package config

import "errors"

// Configuration errors returned by Validate, ParseIntensity and the loader.
var (
	ErrNoInput             = errors.New("no input directory configured")
	ErrNoOutput            = errors.New("no output directory configured")
	ErrNoQuarantine        = errors.New("no quarantine directory configured")
	ErrSameDirectory       = errors.New("input, output and quarantine directories must be distinct")
	ErrInvalidHeight       = errors.New("invalid target height: must be positive")
	ErrInvalidBorder       = errors.New("invalid border size: must be non-negative")
	ErrInvalidIntensity    = errors.New("invalid intensity: use white, black or 0-255")
	ErrInvalidCropPolicy   = errors.New("invalid crop policy: use union or vertical")
	ErrInvalidResizePolicy = errors.New("invalid resize policy: use padded or exact-scale")
	ErrInvalidPosition     = errors.New("invalid rename position: use prefix or suffix")
	ErrInvalidWorkers      = errors.New("invalid worker count: must be non-negative")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigExists is returned by WriteDefault when the target file exists.
	ErrConfigExists = errors.New("configuration file already exists")
)
