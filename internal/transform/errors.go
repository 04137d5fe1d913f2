package transform

import "errors"

var (
	// ErrDecode is returned when OpenCV cannot decode an image file.
	ErrDecode = errors.New("failed to decode image")

	// ErrEncode is returned when OpenCV cannot write an image file.
	ErrEncode = errors.New("failed to encode image")

	// ErrEmptyImage is returned for a Mat with no pixels.
	ErrEmptyImage = errors.New("image has no pixels")

	// ErrUnsupportedType is returned for Mats that are not 8-bit gray or BGR.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrInvalidBorder is returned for a negative border size.
	ErrInvalidBorder = errors.New("border size must be non-negative")
)
