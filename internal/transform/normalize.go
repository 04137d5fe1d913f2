package transform

import (
	"fmt"
	"image"
	"image/color"

	"corpusprep/internal/config"
	"corpusprep/internal/geometry"
	"gocv.io/x/gocv"
)

// BinaryMidpoint is the re-threshold level: samples above it become white,
// everything else black.
const BinaryMidpoint = 127

// NormalizeOptions configures Normalize.
type NormalizeOptions struct {
	Height     int
	Policy     config.ResizePolicy
	Background config.Intensity
}

// NormalizeOptionsFrom extracts the normalization settings of cfg.
func NormalizeOptionsFrom(cfg config.Config) NormalizeOptions {
	return NormalizeOptions{
		Height:     cfg.Resize.Height,
		Policy:     cfg.Resize.Policy,
		Background: cfg.Resize.Background,
	}
}

// PlanFor returns the geometry plan Normalize would apply to an h x w image.
func PlanFor(h, w int, opts NormalizeOptions) (geometry.Plan, error) {
	switch opts.Policy {
	case config.ResizeExactScale:
		return geometry.PlanExactScale(h, w, opts.Height)
	case config.ResizePadded, "":
		return geometry.PlanPadded(h, w, opts.Height)
	default:
		return geometry.Plan{}, fmt.Errorf("%w: %q", config.ErrInvalidResizePolicy, opts.Policy)
	}
}

// Normalize brings img to the configured height. The gray image is
// resampled with nearest-neighbour interpolation, padded left and right
// with the background level, and re-thresholded so the result holds only
// 0 and 255.
func Normalize(img gocv.Mat, opts NormalizeOptions) (gocv.Mat, geometry.Plan, error) {
	if img.Empty() {
		return gocv.Mat{}, geometry.Plan{}, ErrEmptyImage
	}

	plan, err := PlanFor(img.Rows(), img.Cols(), opts)
	if err != nil {
		return gocv.Mat{}, geometry.Plan{}, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if err := toGray(img, &gray); err != nil {
		return gocv.Mat{}, geometry.Plan{}, err
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(gray, &resized, image.Pt(plan.ResizedWidth, plan.OutputHeight), 0, 0, gocv.InterpolationNearestNeighbor)

	padded := gocv.NewMat()
	defer padded.Close()
	if plan.Padded() {
		gocv.CopyMakeBorder(resized, &padded, 0, 0, plan.LeftPad, plan.RightPad,
			gocv.BorderConstant, gray8(opts.Background))
	} else {
		resized.CopyTo(&padded)
	}

	binary := gocv.NewMat()
	gocv.Threshold(padded, &binary, BinaryMidpoint, 255, gocv.ThresholdBinary)
	return binary, plan, nil
}

func gray8(v config.Intensity) color.RGBA {
	return color.RGBA{R: uint8(v), G: uint8(v), B: uint8(v), A: 0}
}
