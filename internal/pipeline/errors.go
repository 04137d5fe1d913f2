package pipeline

import "errors"

var (
	// ErrEmptyGeometry marks an image in which no foreground contour was
	// found. The image is passed through uncropped.
	ErrEmptyGeometry = errors.New("no foreground contours")

	// ErrNonBinaryOutput marks an image holding intensities other than
	// 0 and 255. The image is quarantined.
	ErrNonBinaryOutput = errors.New("image is not bi-level")

	// ErrUnmatchedArtifact marks an image without a transcript or a
	// transcript without an image.
	ErrUnmatchedArtifact = errors.New("unmatched image or transcript")

	// ErrSourceDir is returned when a step cannot list its source directory.
	ErrSourceDir = errors.New("cannot read source directory")

	// ErrDestinationDir is returned when a step cannot prepare its
	// destination directory.
	ErrDestinationDir = errors.New("cannot prepare destination directory")
)
