// Gaussian smoothing by convolution with a normalized kernel
package algorithms

import (
	"fmt"
	"math"

	"image-filter-engine/internal/grid"
)

const (
	DefaultGaussianSize  = 5
	DefaultGaussianSigma = 1.0
)

// GaussianKernel builds a size x size kernel with cell (i,j) proportional to
// exp(-((i-c)^2+(j-c)^2) / (2 sigma^2)), c = size/2, scaled to sum to 1.
func GaussianKernel(size int, sigma float64) (*grid.Grid, error) {
	if err := checkWindow("kernel_size", size); err != nil {
		return nil, err
	}
	if err := checkSigma("sigma", sigma); err != nil {
		return nil, err
	}

	k := grid.New(size, size)
	c := size / 2
	twoSigma2 := 2 * sigma * sigma
	var sum float64
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			di, dj := float64(i-c), float64(j-c)
			v := math.Exp(-(di*di + dj*dj) / twoSigma2)
			k.Set(j, i, v)
			sum += v
		}
	}
	for i := range k.Pix {
		k.Pix[i] /= sum
	}
	return k, nil
}

// GaussianBlur convolves img with GaussianKernel(size, sigma) using symmetric
// borders. The result has the shape of img and keeps float precision.
func GaussianBlur(img *grid.Grid, size int, sigma float64, opts ...Option) (*grid.Grid, error) {
	if img.Empty() {
		return nil, ErrEmptyImage
	}
	kernel, err := GaussianKernel(size, sigma)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return grid.Convolve(img, kernel, grid.Symmetric, o.workers)
}

func checkWindow(name string, size int) error {
	if size < 1 || size%2 == 0 {
		return fmt.Errorf("%w: %s must be an odd number >= 1, got %d", ErrInvalidParameter, name, size)
	}
	return nil
}

func checkSigma(name string, sigma float64) error {
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return fmt.Errorf("%w: %s must be a positive finite number, got %g", ErrInvalidParameter, name, sigma)
	}
	return nil
}
