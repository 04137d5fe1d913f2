// Package transform implements the per-image operations of the corpus
// pipeline on top of OpenCV (gocv): contour cropping, height
// normalization, border padding and the bi-level purity check.
//
// Every function takes ownership of nothing: the input Mat is left intact
// and the returned Mat must be closed by the caller.
package transform
