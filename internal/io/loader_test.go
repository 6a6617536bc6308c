package io

import (
	"bytes"
	stdio "io"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-engine/internal/grid"
)

func newLoader() *ImageLoader {
	l := logrus.New()
	l.SetOutput(stdio.Discard)
	return NewImageLoader(l)
}

func gradient() *grid.Grid {
	g := grid.New(16, 8)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.Set(x, y, float64(x*16+y))
		}
	}
	return g
}

func TestSaveAndLoadLossless(t *testing.T) {
	loader := newLoader()
	dir := t.TempDir()

	for _, ext := range []string{".png", ".bmp", ".tif"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "gradient"+ext)
			src := gradient()
			require.NoError(t, loader.SaveImage(src, path))

			got, err := loader.LoadGrayscale(path)
			require.NoError(t, err)
			assert.Equal(t, src.Pix, got.Pix)
		})
	}
}

func TestSaveClampsAndTruncates(t *testing.T) {
	loader := newLoader()
	path := filepath.Join(t.TempDir(), "clamped.png")

	require.NoError(t, loader.SaveImage(grid.MustFromRows([][]float64{{-40, 12.7, 300}}), path))
	got, err := loader.LoadGrayscale(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 12, 255}, got.Row(0))
}

func TestUnsupportedFormats(t *testing.T) {
	loader := newLoader()
	dir := t.TempDir()

	_, err := loader.LoadGrayscale(filepath.Join(dir, "image.xcf"))
	assert.Error(t, err)
	assert.Error(t, loader.SaveImage(gradient(), filepath.Join(dir, "image.webp")))
	assert.Error(t, loader.SaveImage(grid.New(0, 0), filepath.Join(dir, "empty.png")))

	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a png"), 0o644))
	_, err = loader.LoadGrayscale(corrupt)
	assert.Error(t, err)

	exts := loader.ReadExtensions()
	assert.Contains(t, exts, ".webp")
	assert.NotContains(t, exts, ".xcf")
}

func TestEncodeDecode(t *testing.T) {
	loader := newLoader()
	var buf bytes.Buffer
	require.NoError(t, loader.Encode(&buf, gradient(), imaging.PNG))

	got, err := loader.DecodeGrayscale(&buf)
	require.NoError(t, err)
	assert.Equal(t, gradient().Pix, got.Pix)
}

func TestToImage(t *testing.T) {
	g := grid.MustFromRows([][]float64{{-40, 0, 40}})
	img := ToImage(g, true)
	assert.Equal(t, 3, img.Bounds().Dx())

	gray := g.Rescale().ToGray()
	assert.Equal(t, []uint8{0, 127, 255}, gray.Pix)
}
