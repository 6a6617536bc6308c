// Fixed 3x3 gradient and second-derivative edge detectors
package algorithms

import (
	"fmt"

	"image-filter-engine/internal/grid"
)

const DefaultEdgeKernelSize = 3

var (
	sobelX = [][]float64{
		{-1, 0, 1},
		{-1, 0, 1},
		{-1, 0, 1},
	}
	sobelY = [][]float64{
		{-1, -1, -1},
		{0, 0, 0},
		{1, 1, 1},
	}
	laplacian = [][]float64{
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	}
)

// SobelKernel returns the gradient kernel for direction (dx, dy). Only
// (1,0) and (0,1) with ksize 3 are defined.
func SobelKernel(dx, dy, ksize int) (*grid.Grid, error) {
	if ksize != DefaultEdgeKernelSize {
		return nil, fmt.Errorf("%w: only ksize=3 is supported, got %d", ErrInvalidParameter, ksize)
	}
	switch {
	case dx == 1 && dy == 0:
		return grid.MustFromRows(sobelX), nil
	case dx == 0 && dy == 1:
		return grid.MustFromRows(sobelY), nil
	default:
		return nil, fmt.Errorf("%w: dx=%d dy=%d, use dx=1,dy=0 or dx=0,dy=1", ErrInvalidParameter, dx, dy)
	}
}

// LaplacianKernel returns the 4-neighbour Laplacian. Only ksize 3 is defined.
func LaplacianKernel(ksize int) (*grid.Grid, error) {
	if ksize != DefaultEdgeKernelSize {
		return nil, fmt.Errorf("%w: only ksize=3 is supported, got %d", ErrInvalidParameter, ksize)
	}
	return grid.MustFromRows(laplacian), nil
}

// SobelEdges convolves img with the Sobel kernel for (dx, dy). Output is signed.
func SobelEdges(img *grid.Grid, dx, dy, ksize int, opts ...Option) (*grid.Grid, error) {
	kernel, err := SobelKernel(dx, dy, ksize)
	if err != nil {
		return nil, err
	}
	return convolveEdges(img, kernel, opts)
}

// LaplacianEdges convolves img with the Laplacian kernel. Output is signed.
func LaplacianEdges(img *grid.Grid, ksize int, opts ...Option) (*grid.Grid, error) {
	kernel, err := LaplacianKernel(ksize)
	if err != nil {
		return nil, err
	}
	return convolveEdges(img, kernel, opts)
}

func convolveEdges(img, kernel *grid.Grid, opts []Option) (*grid.Grid, error) {
	if img.Empty() {
		return nil, ErrEmptyImage
	}
	o := buildOptions(opts)
	return grid.Convolve(img, kernel, grid.Symmetric, o.workers)
}
