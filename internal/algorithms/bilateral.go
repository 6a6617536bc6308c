// Edge-preserving bilateral smoothing
package algorithms

import (
	"math"

	"image-filter-engine/internal/grid"
)

const (
	DefaultBilateralDiameter   = 9
	DefaultBilateralSigmaColor = 75.0
	DefaultBilateralSigmaSpace = 75.0
)

// SpatialWeights returns the diameter x diameter grid of
// exp(-(dx^2+dy^2) / (2 sigmaSpace^2)) centered on the middle cell.
func SpatialWeights(diameter int, sigmaSpace float64) (*grid.Grid, error) {
	if err := checkWindow("d", diameter); err != nil {
		return nil, err
	}
	if err := checkSigma("sigma_space", sigmaSpace); err != nil {
		return nil, err
	}

	half := diameter / 2
	w := grid.New(diameter, diameter)
	twoSigma2 := 2 * sigmaSpace * sigmaSpace
	for y := 0; y < diameter; y++ {
		dy := float64(y - half)
		for x := 0; x < diameter; x++ {
			dx := float64(x - half)
			w.Set(x, y, math.Exp(-(dx*dx+dy*dy)/twoSigma2))
		}
	}
	return w, nil
}

// BilateralFilter computes, for every sample, the average of its reflect-padded
// diameter x diameter neighborhood weighted by spatial distance and by
// similarity to the center sample. Weights are normalized per sample. The
// result is truncated to the 8-bit sample range.
func BilateralFilter(img *grid.Grid, diameter int, sigmaColor, sigmaSpace float64, opts ...Option) (*grid.Grid, error) {
	if img.Empty() {
		return nil, ErrEmptyImage
	}
	if err := checkSigma("sigma_color", sigmaColor); err != nil {
		return nil, err
	}
	spatial, err := SpatialWeights(diameter, sigmaSpace)
	if err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	padded := grid.Pad(img, diameter/2, grid.Reflect)
	out := grid.New(img.Width, img.Height)
	twoSigma2 := 2 * sigmaColor * sigmaColor

	err = grid.ParallelRows(img.Height, o.workers, func(start, end int) {
		for y := start; y < end; y++ {
			center := img.Row(y)
			dst := out.Row(y)
			for x := range dst {
				c := center[x]
				// Accumulating offsets from c keeps flat regions exactly flat.
				var num, den float64
				for ky := 0; ky < diameter; ky++ {
					region := padded.Row(y + ky)[x : x+diameter]
					sw := spatial.Row(ky)
					for kx, v := range region {
						d := v - c
						w := sw[kx] * math.Exp(-(d*d)/twoSigma2)
						num += w * d
						den += w
					}
				}
				dst[x] = c + num/den
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out.ToUint8Range(), nil
}
