package transform

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Intensities returns the distinct sample values of a single-channel 8-bit
// image in ascending order.
func Intensities(img gocv.Mat) ([]uint8, error) {
	if img.Empty() {
		return nil, ErrEmptyImage
	}
	if img.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("%w: want 8-bit gray, got %v", ErrUnsupportedType, img.Type())
	}

	src := img
	if !img.IsContinuous() {
		src = img.Clone()
		defer src.Close()
	}

	var seen [256]bool
	for _, v := range src.ToBytes() {
		seen[v] = true
	}

	values := make([]uint8, 0, 2)
	for v, ok := range seen {
		if ok {
			values = append(values, uint8(v))
		}
	}
	return values, nil
}

// IsBiLevel reports whether img holds exactly the two levels 0 and 255.
// An image that is entirely black or entirely white is not bi-level.
func IsBiLevel(img gocv.Mat) (bool, error) {
	values, err := Intensities(img)
	if err != nil {
		return false, err
	}
	return len(values) == 2 && values[0] == 0 && values[1] == 255, nil
}
