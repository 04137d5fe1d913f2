package transform

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	img := newGray(t, 12, 30, 255)
	fill(img, image.Rect(3, 3, 9, 9), 0)

	path := filepath.Join(t.TempDir(), "line.tif")
	require.NoError(t, Save(path, img))

	back, err := Load(path, gocv.IMReadGrayScale)
	require.NoError(t, err)
	closeLater(t, back)

	assert.Equal(t, img.Rows(), back.Rows())
	assert.Equal(t, img.Cols(), back.Cols())
	assert.Equal(t, img.ToBytes(), back.ToBytes())
}

func TestLoadUndecodable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.tif")
	require.NoError(t, os.WriteFile(path, []byte("not a tiff"), 0o600))

	_, err := Load(path, gocv.IMReadColor)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Load(filepath.Join(t.TempDir(), "missing.tif"), gocv.IMReadColor)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestSaveEmpty(t *testing.T) {
	t.Parallel()

	empty := closeLater(t, gocv.NewMat())
	err := Save(filepath.Join(t.TempDir(), "empty.tif"), empty)
	assert.ErrorIs(t, err, ErrEmptyImage)
}
