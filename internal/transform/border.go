package transform

import (
	"corpusprep/internal/config"
	"gocv.io/x/gocv"
)

// AddBorder surrounds img with size pixels of fill on every side.
func AddBorder(img gocv.Mat, size int, fill config.Intensity) (gocv.Mat, error) {
	if img.Empty() {
		return gocv.Mat{}, ErrEmptyImage
	}
	if size < 0 {
		return gocv.Mat{}, ErrInvalidBorder
	}
	if size == 0 {
		return img.Clone(), nil
	}

	out := gocv.NewMat()
	gocv.CopyMakeBorder(img, &out, size, size, size, size, gocv.BorderConstant, gray8(fill))
	return out, nil
}
