package transform

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Load decodes the image at path. On error the returned Mat is the zero
// value and must not be used.
func Load(path string, flags gocv.IMReadFlag) (gocv.Mat, error) {
	img := gocv.IMRead(path, flags)
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, fmt.Errorf("%s: %w", path, ErrDecode)
	}
	return img, nil
}

// Save encodes img to path; the format follows the file extension.
func Save(path string, img gocv.Mat) error {
	if img.Empty() {
		return fmt.Errorf("%s: %w", path, ErrEmptyImage)
	}
	if !gocv.IMWrite(path, img) {
		return fmt.Errorf("%s: %w", path, ErrEncode)
	}
	return nil
}

// toGray writes a single-channel 8-bit copy of img into dst.
func toGray(img gocv.Mat, dst *gocv.Mat) error {
	switch img.Type() {
	case gocv.MatTypeCV8UC1:
		img.CopyTo(dst)
	case gocv.MatTypeCV8UC3:
		gocv.CvtColor(img, dst, gocv.ColorBGRToGray)
	case gocv.MatTypeCV8UC4:
		gocv.CvtColor(img, dst, gocv.ColorBGRAToGray)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedType, img.Type())
	}
	return nil
}
