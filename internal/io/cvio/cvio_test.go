package cvio

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"image-filter-engine/internal/grid"
)

func TestMatRoundTrip(t *testing.T) {
	src := grid.MustFromRows([][]float64{{0, 10, 20}, {200, 255, 300}})

	mat, err := ToMat(src)
	require.NoError(t, err)
	defer mat.Close()
	assert.Equal(t, 2, mat.Rows())
	assert.Equal(t, 3, mat.Cols())

	got, err := FromMat(mat)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 10, 20}, {200, 255, 255}}, got.Rows())
}

func TestFromMatFloat(t *testing.T) {
	mat := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV64FC1)
	defer mat.Close()
	mat.SetDoubleAt(1, 0, -3.5)

	got, err := FromMat(mat)
	require.NoError(t, err)
	assert.Equal(t, -3.5, got.At(0, 1))

	color := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC3)
	defer color.Close()
	_, err = FromMat(color)
	assert.Error(t, err)
}

func TestLoaderFiles(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	loader := NewLoader(l)

	path := filepath.Join(t.TempDir(), "out.png")
	src := grid.MustFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, loader.SaveImage(src, path))

	got, err := loader.LoadGrayscale(path)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, got.Pix)

	_, err = loader.LoadGrayscale(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
