package transform

import (
	"image"

	"corpusprep/internal/config"
	"corpusprep/internal/geometry"
	"gocv.io/x/gocv"
)

// CropResult describes what Crop did to an image.
type CropResult struct {
	// Contours is the number of external foreground contours found.
	Contours int
	// Box is the union of all contour bounding boxes, clamped to the image.
	// It is empty when no contours were found.
	Box geometry.Box
	// Region is the area actually kept.
	Region image.Rectangle
	// Cropped is false when the image was passed through unchanged.
	Cropped bool
}

// Found reports whether the contours yielded a box with an area. A
// full-frame box counts as found even though nothing is cropped.
func (r CropResult) Found() bool {
	return r.Contours > 0 && r.Box.Width() > 0 && r.Box.Height() > 0
}

// ContourBoxes binarizes img with an Otsu threshold on the inverted gray
// image, so dark ink becomes foreground, and returns the bounding box of
// every external contour.
func ContourBoxes(img gocv.Mat) ([]image.Rectangle, error) {
	if img.Empty() {
		return nil, ErrEmptyImage
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if err := toGray(img, &gray); err != nil {
		return nil, err
	}

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	boxes := make([]image.Rectangle, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		boxes = append(boxes, gocv.BoundingRect(contours.At(i)))
	}
	return boxes, nil
}

// Crop removes the background margins around the foreground of img.
//
// With CropUnion the result is the union box of all contours; with
// CropVertical only rows outside the union box are removed. When no
// contour is found the image is returned uncropped. Cropping an image
// that was already cropped with the same policy returns it unchanged.
func Crop(img gocv.Mat, policy config.CropPolicy) (gocv.Mat, CropResult, error) {
	boxes, err := ContourBoxes(img)
	if err != nil {
		return gocv.Mat{}, CropResult{}, err
	}

	box := geometry.UnionAll(boxes).Clamp(img.Cols(), img.Rows())
	result := CropResult{Contours: len(boxes), Box: box}

	if box.IsEmpty() || box.Width() == 0 || box.Height() == 0 {
		result.Region = image.Rect(0, 0, img.Cols(), img.Rows())
		return img.Clone(), result, nil
	}

	region := box.Rect()
	if policy == config.CropVertical {
		region.Min.X = 0
		region.Max.X = img.Cols()
	}
	result.Region = region
	result.Cropped = region != image.Rect(0, 0, img.Cols(), img.Rows())

	view := img.Region(region)
	defer view.Close()
	return view.Clone(), result, nil
}
