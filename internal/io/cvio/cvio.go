// Package cvio loads and saves grayscale grids through OpenCV.
package cvio

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-filter-engine/internal/grid"
)

// Loader reads and writes image files with OpenCV codecs
type Loader struct {
	logger logrus.FieldLogger
}

func NewLoader(logger logrus.FieldLogger) *Loader {
	return &Loader{logger: logger}
}

// LoadGrayscale reads path with IMReadGrayScale and copies it into a grid
func (l *Loader) LoadGrayscale(path string) (*grid.Grid, error) {
	l.logger.WithField("filepath", path).Debug("Loading image as grayscale with OpenCV")

	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to load image: %s", path)
	}

	g, err := FromMat(mat)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    g.Width,
		"height":   g.Height,
	}).Info("Grayscale image loaded successfully")
	return g, nil
}

// SaveImage writes g as 8-bit grayscale; OpenCV picks the codec from the extension
func (l *Loader) SaveImage(g *grid.Grid, path string) error {
	mat, err := ToMat(g)
	if err != nil {
		return err
	}
	defer mat.Close()

	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("failed to save image: %s", path)
	}

	l.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    g.Width,
		"height":   g.Height,
	}).Info("Image saved successfully")
	return nil
}

// FromMat copies a single-channel 8-bit, 32-bit float or 64-bit float Mat
func FromMat(mat gocv.Mat) (*grid.Grid, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("image is empty")
	}
	if mat.Channels() != 1 {
		return nil, fmt.Errorf("expected a single channel, got %d", mat.Channels())
	}

	g := grid.New(mat.Cols(), mat.Rows())
	switch mat.Type() {
	case gocv.MatTypeCV8UC1:
		for y := 0; y < g.Height; y++ {
			row := g.Row(y)
			for x := range row {
				row[x] = float64(mat.GetUCharAt(y, x))
			}
		}
	case gocv.MatTypeCV32FC1:
		for y := 0; y < g.Height; y++ {
			row := g.Row(y)
			for x := range row {
				row[x] = float64(mat.GetFloatAt(y, x))
			}
		}
	case gocv.MatTypeCV64FC1:
		for y := 0; y < g.Height; y++ {
			row := g.Row(y)
			for x := range row {
				row[x] = mat.GetDoubleAt(y, x)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported mat type: %v", mat.Type())
	}
	return g, nil
}

// ToMat converts g to an 8-bit single-channel Mat. The caller must Close it.
func ToMat(g *grid.Grid) (gocv.Mat, error) {
	if g.Empty() {
		return gocv.NewMat(), fmt.Errorf("cannot convert empty image")
	}
	return gocv.NewMatFromBytes(g.Height, g.Width, gocv.MatTypeCV8UC1, g.ToGray().Pix)
}
