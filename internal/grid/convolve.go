package grid

import (
	"errors"
	"fmt"
)

// ErrEvenKernel is returned for kernels without a center sample.
var ErrEvenKernel = errors.New("kernel dimensions must be odd")

// Correlate slides kernel over src without flipping it and returns a grid of
// the same size as src. Borders are synthesized with boundary b.
func Correlate(src, kernel *Grid, b Boundary, workers int) (*Grid, error) {
	if src.Empty() || kernel.Empty() {
		return nil, ErrEmpty
	}
	if kernel.Width%2 == 0 || kernel.Height%2 == 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrEvenKernel, kernel.Width, kernel.Height)
	}

	padded := PadXY(src, kernel.Width/2, kernel.Height/2, b)
	out := New(src.Width, src.Height)

	err := ParallelRows(src.Height, workers, func(start, end int) {
		for y := start; y < end; y++ {
			dst := out.Row(y)
			for x := range dst {
				var sum float64
				for ky := 0; ky < kernel.Height; ky++ {
					row := padded.Row(y + ky)[x : x+kernel.Width]
					for kx, w := range kernel.Row(ky) {
						sum += w * row[kx]
					}
				}
				dst[x] = sum
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Convolve performs true 2D convolution (the kernel is flipped) in "same"
// output mode.
func Convolve(src, kernel *Grid, b Boundary, workers int) (*Grid, error) {
	if kernel.Empty() {
		return nil, ErrEmpty
	}
	return Correlate(src, kernel.Flip(), b, workers)
}
