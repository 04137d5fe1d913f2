// Package geometry holds the integer geometry used by the transforms:
// bounding-box unions for contour cropping and the width/padding plans
// used to bring a line image to a fixed height.
package geometry

import (
	"image"
	"math"
)

// Box is an axis-aligned region in pixel coordinates. Max is exclusive,
// matching image.Rectangle.
type Box struct {
	MinX, MinY int
	MaxX, MaxY int
}

// EmptyBox returns the fold identity for Union: (+inf, +inf, -inf, -inf).
func EmptyBox() Box {
	return Box{
		MinX: math.MaxInt,
		MinY: math.MaxInt,
		MaxX: math.MinInt,
		MaxY: math.MinInt,
	}
}

// IsEmpty reports whether nothing has been folded into b.
func (b Box) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Union returns the smallest box containing both b and r.
func (b Box) Union(r image.Rectangle) Box {
	return Box{
		MinX: min(b.MinX, r.Min.X),
		MinY: min(b.MinY, r.Min.Y),
		MaxX: max(b.MaxX, r.Max.X),
		MaxY: max(b.MaxY, r.Max.Y),
	}
}

// Contains reports whether r lies entirely inside b.
func (b Box) Contains(r image.Rectangle) bool {
	if b.IsEmpty() {
		return false
	}
	return r.Min.X >= b.MinX && r.Min.Y >= b.MinY &&
		r.Max.X <= b.MaxX && r.Max.Y <= b.MaxY
}

// Clamp restricts b to the image area [0,width) x [0,height).
// An empty box stays empty.
func (b Box) Clamp(width, height int) Box {
	if b.IsEmpty() {
		return b
	}
	return Box{
		MinX: max(b.MinX, 0),
		MinY: max(b.MinY, 0),
		MaxX: min(b.MaxX, width),
		MaxY: min(b.MaxY, height),
	}
}

// Width of the box, 0 when empty.
func (b Box) Width() int {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height of the box, 0 when empty.
func (b Box) Height() int {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxY - b.MinY
}

// Rect converts b to an image.Rectangle. An empty box yields image.Rectangle{}.
func (b Box) Rect() image.Rectangle {
	if b.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// UnionAll folds rects into a single box starting from EmptyBox.
func UnionAll(rects []image.Rectangle) Box {
	box := EmptyBox()
	for _, r := range rects {
		box = box.Union(r)
	}
	return box
}
