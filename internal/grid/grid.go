// Row-major single-channel sample grid used by every filter
package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmpty is returned when an operation receives a nil or zero-sized grid.
var ErrEmpty = errors.New("grid is empty")

// Grid is a Height x Width buffer of float64 samples stored row by row.
// Sample (x, y) lives at Pix[y*Stride+x]. Grayscale images use the [0,255]
// range, intermediate results may leave it.
type Grid struct {
	Width  int
	Height int
	Stride int
	Pix    []float64
}

// New allocates a zeroed grid.
func New(width, height int) *Grid {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("grid: negative dimensions %dx%d", width, height))
	}
	return &Grid{
		Width:  width,
		Height: height,
		Stride: width,
		Pix:    make([]float64, width*height),
	}
}

// Filled allocates a grid with every sample set to v.
func Filled(width, height int, v float64) *Grid {
	g := New(width, height)
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

// FromRows copies a slice of equally long rows into a new grid.
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmpty
	}
	w := len(rows[0])
	g := New(w, len(rows))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("grid: row %d has %d samples, want %d", y, len(row), w)
		}
		copy(g.Row(y), row)
	}
	return g, nil
}

// MustFromRows is FromRows for literals known to be well formed.
func MustFromRows(rows [][]float64) *Grid {
	g, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// Empty reports whether g is nil or has no samples.
func (g *Grid) Empty() bool {
	return g == nil || g.Width == 0 || g.Height == 0
}

// At returns the sample at column x, row y.
func (g *Grid) At(x, y int) float64 {
	return g.Pix[y*g.Stride+x]
}

// Set stores v at column x, row y.
func (g *Grid) Set(x, y int, v float64) {
	g.Pix[y*g.Stride+x] = v
}

// Row returns the samples of row y. The slice aliases the grid buffer.
func (g *Grid) Row(y int) []float64 {
	off := y * g.Stride
	return g.Pix[off : off+g.Width]
}

// Rows returns a copy of the grid as nested slices.
func (g *Grid) Rows() [][]float64 {
	rows := make([][]float64, g.Height)
	for y := range rows {
		rows[y] = append([]float64(nil), g.Row(y)...)
	}
	return rows
}

// Clone returns a compact deep copy.
func (g *Grid) Clone() *Grid {
	c := New(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		copy(c.Row(y), g.Row(y))
	}
	return c
}

// SameSize reports whether g and o have identical dimensions.
func (g *Grid) SameSize(o *Grid) bool {
	return g.Width == o.Width && g.Height == o.Height
}

// Sum adds every sample.
func (g *Grid) Sum() float64 {
	var s float64
	for y := 0; y < g.Height; y++ {
		for _, v := range g.Row(y) {
			s += v
		}
	}
	return s
}

// MinMax returns the smallest and largest sample.
func (g *Grid) MinMax() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for y := 0; y < g.Height; y++ {
		for _, v := range g.Row(y) {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// Flip returns g rotated by 180 degrees, turning a correlation kernel into
// a convolution kernel.
func (g *Grid) Flip() *Grid {
	f := New(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		src := g.Row(y)
		dst := f.Row(g.Height - 1 - y)
		for x, v := range src {
			dst[g.Width-1-x] = v
		}
	}
	return f
}

// ToUint8Range truncates every sample toward zero and clamps it to [0,255],
// the conversion applied when a float result is stored as 8-bit samples.
func (g *Grid) ToUint8Range() *Grid {
	out := New(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		dst := out.Row(y)
		for x, v := range g.Row(y) {
			dst[x] = clampUint8(v)
		}
	}
	return out
}

// Rescale maps the sample range linearly onto [0,255]. A flat grid maps to 0.
// Edge responses are signed, so they go through Rescale before display.
func (g *Grid) Rescale() *Grid {
	lo, hi := g.MinMax()
	out := New(g.Width, g.Height)
	if hi <= lo {
		return out
	}
	scale := 255 / (hi - lo)
	for y := 0; y < g.Height; y++ {
		dst := out.Row(y)
		for x, v := range g.Row(y) {
			dst[x] = (v - lo) * scale
		}
	}
	return out
}

func clampUint8(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return math.Trunc(v)
}
