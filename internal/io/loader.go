// Image loading and saving for grayscale grids
package io

import (
	"fmt"
	"image"
	stdio "io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"

	"image-filter-engine/internal/grid"
)

var (
	readFormats  = []string{".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff", ".bmp", ".webp"}
	writeFormats = []string{".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff", ".bmp"}
)

// ImageLoader handles image file operations
type ImageLoader struct {
	logger logrus.FieldLogger
}

func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	return &ImageLoader{
		logger: logger,
	}
}

// LoadGrayscale decodes an image file and converts it to luma samples in [0,255].
// EXIF orientation is applied before conversion.
func (il *ImageLoader) LoadGrayscale(path string) (*grid.Grid, error) {
	il.logger.WithField("filepath", path).Debug("Loading image as grayscale")

	if !isSupported(path, readFormats) {
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}

	g := grid.FromImage(img)
	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    g.Width,
		"height":   g.Height,
	}).Info("Grayscale image loaded successfully")

	return g, nil
}

// DecodeGrayscale reads an encoded image from r.
func (il *ImageLoader) DecodeGrayscale(r stdio.Reader) (*grid.Grid, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return grid.FromImage(img), nil
}

// SaveImage writes g as an 8-bit grayscale file, format chosen by extension.
// Samples are truncated and clamped to [0,255]; rescale signed edge
// responses first if they should stay visible.
func (il *ImageLoader) SaveImage(g *grid.Grid, path string) error {
	il.logger.WithField("filepath", path).Debug("Saving image")

	if g.Empty() {
		return fmt.Errorf("cannot save empty image")
	}

	if !isSupported(path, writeFormats) {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	if err := imaging.Save(g.ToGray(), path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    g.Width,
		"height":   g.Height,
	}).Info("Image saved successfully")

	return nil
}

// Encode writes g to w in the given format.
func (il *ImageLoader) Encode(w stdio.Writer, g *grid.Grid, format imaging.Format) error {
	if g.Empty() {
		return fmt.Errorf("cannot encode empty image")
	}
	return imaging.Encode(w, g.ToGray(), format)
}

// ReadExtensions lists the file extensions LoadGrayscale accepts
func (il *ImageLoader) ReadExtensions() []string {
	return slices.Clone(readFormats)
}

// ToImage converts g for display, rescaling signed data to the full range.
func ToImage(g *grid.Grid, rescale bool) image.Image {
	if rescale {
		return g.Rescale().ToGray()
	}
	return g.ToGray()
}

func isSupported(path string, formats []string) bool {
	return slices.Contains(formats, strings.ToLower(filepath.Ext(path)))
}
