package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions is returned when a plan is requested for a
// non-positive source size or target height.
var ErrInvalidDimensions = errors.New("invalid dimensions: height, width and target must be positive")

// Plan describes how a (Height x Width) image is brought to its output size:
// resample to ResizedWidth x OutputHeight, then add LeftPad and RightPad
// columns of background.
type Plan struct {
	Height int
	Width  int

	ResizedWidth int
	LeftPad      int
	RightPad     int

	OutputWidth  int
	OutputHeight int
}

// Padded reports whether the plan adds any side columns.
func (p Plan) Padded() bool {
	return p.LeftPad > 0 || p.RightPad > 0
}

// Identity reports whether applying the plan leaves the image size unchanged.
func (p Plan) Identity() bool {
	return !p.Padded() && p.ResizedWidth == p.Width && p.OutputHeight == p.Height
}

func (p Plan) String() string {
	return fmt.Sprintf("%dx%d -> resize %dx%d, pad %d/%d -> %dx%d",
		p.Width, p.Height, p.ResizedWidth, p.OutputHeight,
		p.LeftPad, p.RightPad, p.OutputWidth, p.OutputHeight)
}

// PlanPadded computes the exact-height plan for an h x w image and target
// height. The proportional width w*target/h is rounded half-to-even for the
// resample, and the fractional remainder up to ceil(w*target/h) is split
// into left (floor) and right (ceil) padding.
func PlanPadded(h, w, target int) (Plan, error) {
	if h <= 0 || w <= 0 || target <= 0 {
		return Plan{}, ErrInvalidDimensions
	}

	scaled := float64(w*target) / float64(h)
	newWidth := ceilDiv(w*target, h)
	total := float64(newWidth) - scaled

	left := int(math.Floor(total / 2))
	right := int(math.Ceil(total / 2))
	resized := max(int(math.RoundToEven(scaled)), 1)

	return Plan{
		Height:       h,
		Width:        w,
		ResizedWidth: resized,
		LeftPad:      left,
		RightPad:     right,
		OutputWidth:  resized + left + right,
		OutputHeight: target,
	}, nil
}

// PlanExactScale computes the gcd-based plan: the output height is the
// smallest multiple of h/gcd(h,w) that is >= target, and the width is
// scaled by the same integer factor. No padding is added, so the output
// height may exceed target.
func PlanExactScale(h, w, target int) (Plan, error) {
	if h <= 0 || w <= 0 || target <= 0 {
		return Plan{}, ErrInvalidDimensions
	}

	d := gcd(h, w)
	step := h / d
	k := ceilDiv(target, step)
	outW := k * (w / d)

	return Plan{
		Height:       h,
		Width:        w,
		ResizedWidth: outW,
		OutputWidth:  outW,
		OutputHeight: k * step,
	}, nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
