package transform

import (
	"image"
	"testing"

	"gocv.io/x/gocv"
)

// newGray returns a rows x cols 8-bit gray Mat filled with v.
func newGray(t *testing.T, rows, cols int, v uint8) gocv.Mat {
	t.Helper()

	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(v), 0, 0, 0), rows, cols, gocv.MatTypeCV8UC1)
	t.Cleanup(func() { m.Close() })
	return m
}

// fill paints r with v on a single-channel Mat.
func fill(m gocv.Mat, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.SetUCharAt(y, x, v)
		}
	}
}

// closeLater registers m for cleanup.
func closeLater(t *testing.T, m gocv.Mat) gocv.Mat {
	t.Helper()
	t.Cleanup(func() { m.Close() })
	return m
}
