package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyBox(t *testing.T) {
	t.Parallel()

	box := EmptyBox()
	assert.True(t, box.IsEmpty())
	assert.Equal(t, image.Rectangle{}, box.Rect())
	assert.Zero(t, box.Width())
	assert.Zero(t, box.Height())
	assert.True(t, box.Clamp(10, 10).IsEmpty())
	assert.False(t, box.Contains(image.Rect(0, 0, 1, 1)))
}

func TestUnionContainsEveryRect(t *testing.T) {
	t.Parallel()

	rects := []image.Rectangle{
		image.Rect(10, 4, 20, 9),
		image.Rect(3, 6, 8, 30),
		image.Rect(40, 1, 41, 2),
	}

	box := UnionAll(rects)
	require.False(t, box.IsEmpty())
	assert.Equal(t, Box{MinX: 3, MinY: 1, MaxX: 41, MaxY: 30}, box)
	for _, r := range rects {
		assert.True(t, box.Contains(r), "box %v should contain %v", box, r)
	}
	assert.Equal(t, 38, box.Width())
	assert.Equal(t, 29, box.Height())
}

func TestUnionSingleRect(t *testing.T) {
	t.Parallel()

	r := image.Rect(2, 3, 5, 7)
	assert.Equal(t, r, EmptyBox().Union(r).Rect())
}

func TestClamp(t *testing.T) {
	t.Parallel()

	box := Box{MinX: -2, MinY: -1, MaxX: 120, MaxY: 40}
	assert.Equal(t, Box{MinX: 0, MinY: 0, MaxX: 100, MaxY: 30}, box.Clamp(100, 30))
}
