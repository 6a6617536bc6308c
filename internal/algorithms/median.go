// Median (order-statistic) smoothing
package algorithms

import (
	"slices"

	"image-filter-engine/internal/grid"
)

const DefaultMedianSize = 5

// MedianBlur replaces every sample with the median of its size x size window.
// The image is reflect-padded by size/2 and each window is sorted in full; the
// middle element (index size*size/2) is taken.
func MedianBlur(img *grid.Grid, size int, opts ...Option) (*grid.Grid, error) {
	if img.Empty() {
		return nil, ErrEmptyImage
	}
	if err := checkWindow("kernel_size", size); err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	padded := grid.Pad(img, size/2, grid.Reflect)
	out := grid.New(img.Width, img.Height)
	mid := size * size / 2

	err := grid.ParallelRows(img.Height, o.workers, func(start, end int) {
		window := make([]float64, 0, size*size)
		for y := start; y < end; y++ {
			dst := out.Row(y)
			for x := range dst {
				window = window[:0]
				for ky := 0; ky < size; ky++ {
					window = append(window, padded.Row(y + ky)[x:x+size]...)
				}
				slices.Sort(window)
				dst[x] = window[mid]
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
