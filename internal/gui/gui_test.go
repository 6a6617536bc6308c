package gui

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-engine/internal/core"
	"image-filter-engine/internal/grid"
	"image-filter-engine/internal/io"
)

func TestPreviewImage(t *testing.T) {
	small := image.NewGray(image.Rect(0, 0, 40, 30))
	assert.Same(t, small, PreviewImage(small, 64))

	wide := image.NewGray(image.Rect(0, 0, 200, 50))
	assert.Equal(t, image.Rect(0, 0, 100, 25), PreviewImage(wide, 100).Bounds())

	tall := image.NewGray(image.Rect(0, 0, 30, 300))
	assert.Equal(t, image.Rect(0, 0, 10, 100), PreviewImage(tall, 100).Bounds())
}

func TestSaveResults(t *testing.T) {
	logger, _ := test.NewNullLogger()
	loader := io.NewImageLoader(logger)
	data := core.NewImageData()

	_, err := SaveResults(loader, data, t.TempDir())
	assert.Error(t, err)

	img := grid.New(16, 12)
	for i := range img.Pix {
		img.Pix[i] = float64(i % 256)
	}
	require.NoError(t, data.SetOriginal(img, "ramp.png"))
	require.NoError(t, core.RunDemo(t.Context(), data, 1))

	dir := t.TempDir()
	n, err := SaveResults(loader, data, dir)
	require.NoError(t, err)
	assert.Equal(t, len(core.DemoPanels), n)

	for _, name := range []string{"original", "gaussian", "median", "bilateral", "sobel", "laplacian"} {
		_, err := os.Stat(filepath.Join(dir, name+".png"))
		assert.NoError(t, err, name)
	}

	sobel, err := loader.LoadGrayscale(filepath.Join(dir, "sobel.png"))
	require.NoError(t, err)
	lo, hi := sobel.MinMax()
	assert.Equal(t, 0.0, lo)
	assert.InDelta(t, 255.0, hi, 1)
}
