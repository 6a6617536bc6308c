package grid

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFromRows(t *testing.T) {
	g, err := FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width)
	assert.Equal(t, 2, g.Height)
	assert.Equal(t, 6.0, g.At(2, 1))
	assert.Equal(t, []float64{4, 5, 6}, g.Row(1))

	_, err = FromRows([][]float64{{1, 2}, {3}})
	assert.Error(t, err)

	_, err = FromRows(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCloneIsIndependent(t *testing.T) {
	g := MustFromRows([][]float64{{1, 2}, {3, 4}})
	c := g.Clone()
	c.Set(0, 0, 99)
	assert.Equal(t, 1.0, g.At(0, 0))
	assert.Equal(t, g.Rows()[1], c.Rows()[1])
}

func TestFlip(t *testing.T) {
	g := MustFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	assert.Equal(t, [][]float64{{6, 5, 4}, {3, 2, 1}}, g.Flip().Rows())
}

func TestToUint8Range(t *testing.T) {
	g := MustFromRows([][]float64{{-3, 12.9, 254.99, 300}})
	assert.Equal(t, [][]float64{{0, 12, 254, 255}}, g.ToUint8Range().Rows())
}

func TestRescale(t *testing.T) {
	g := MustFromRows([][]float64{{-10, 0, 10}})
	assert.InDeltaSlice(t, []float64{0, 127.5, 255}, g.Rescale().Row(0), 1e-9)

	flat := Filled(2, 2, 7)
	assert.Equal(t, 0.0, flat.Rescale().Sum())
}

func TestMirrorIndex(t *testing.T) {
	tests := []struct {
		name string
		b    Boundary
		n    int
		in   []int
		want []int
	}{
		{"reflect", Reflect, 4, []int{-3, -2, -1, 0, 3, 4, 5, 6}, []int{3, 2, 1, 0, 3, 2, 1, 0}},
		{"symmetric", Symmetric, 4, []int{-3, -2, -1, 0, 3, 4, 5, 6}, []int{2, 1, 0, 0, 3, 3, 2, 1}},
		{"reflect wraps twice", Reflect, 2, []int{-3, -2, 2, 3}, []int{1, 0, 0, 1}},
		{"symmetric wraps twice", Symmetric, 2, []int{-3, -2, 2, 3}, []int{1, 1, 1, 0}},
		{"reflect single sample", Reflect, 1, []int{-2, -1, 1, 2}, []int{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, idx := range tt.in {
				assert.Equal(t, tt.want[i], MirrorIndex(idx, tt.n, tt.b), "index %d", idx)
			}
		})
	}
}

func TestPad(t *testing.T) {
	g := MustFromRows([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	r := Pad(g, 1, Reflect)
	assert.Equal(t, [][]float64{
		{5, 4, 5, 6, 5},
		{2, 1, 2, 3, 2},
		{5, 4, 5, 6, 5},
		{8, 7, 8, 9, 8},
		{5, 4, 5, 6, 5},
	}, r.Rows())

	s := Pad(g, 1, Symmetric)
	assert.Equal(t, [][]float64{
		{1, 1, 2, 3, 3},
		{1, 1, 2, 3, 3},
		{4, 4, 5, 6, 6},
		{7, 7, 8, 9, 9},
		{7, 7, 8, 9, 9},
	}, s.Rows())
}

func TestCorrelateAndConvolve(t *testing.T) {
	src := MustFromRows([][]float64{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}})
	k := MustFromRows([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	corr, err := Correlate(src, k, Symmetric, 1)
	require.NoError(t, err)
	// Correlating an impulse yields the kernel rotated by 180 degrees.
	assert.Equal(t, [][]float64{{9, 8, 7}, {6, 5, 4}, {3, 2, 1}}, corr.Rows())

	conv, err := Convolve(src, k, Symmetric, 1)
	require.NoError(t, err)
	assert.Equal(t, k.Rows(), conv.Rows())
}

func TestCorrelateRejectsEvenKernel(t *testing.T) {
	_, err := Correlate(Filled(3, 3, 1), Filled(2, 2, 1), Reflect, 1)
	assert.ErrorIs(t, err, ErrEvenKernel)

	_, err = Correlate(New(0, 0), Filled(3, 3, 1), Reflect, 1)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestParallelRowsMatchesSequential(t *testing.T) {
	src := New(17, 23)
	for i := range src.Pix {
		src.Pix[i] = float64((i * 37) % 251)
	}
	k := MustFromRows([][]float64{{1, 0, -1}, {2, 0, -2}, {1, 0, -1}})

	seq, err := Convolve(src, k, Symmetric, 1)
	require.NoError(t, err)
	par, err := Convolve(src, k, Symmetric, 4)
	require.NoError(t, err)
	assert.Equal(t, seq.Pix, par.Pix)
}

func TestParallelRowsCoversRange(t *testing.T) {
	hits := make([]int, 10)
	require.NoError(t, ParallelRows(10, 3, func(start, end int) {
		for i := start; i < end; i++ {
			hits[i]++
		}
	}))
	for i, h := range hits {
		assert.Equal(t, 1, h, "row %d", i)
	}

	err := ParallelRows(4, 2, func(start, end int) {
		if start > 0 {
			panic("boom")
		}
	})
	assert.Error(t, err)
}

func TestImageRoundTrip(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 0, color.Gray{Y: 200})
	img.SetGray(0, 1, color.Gray{Y: 17})

	g := FromImage(img)
	assert.Equal(t, [][]float64{{0, 200}, {17, 0}}, g.Rows())
	assert.Equal(t, img.Pix, g.ToGray().Pix)

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	assert.Equal(t, 255.0, FromImage(rgba).At(0, 0))
}

func TestToDense(t *testing.T) {
	g := MustFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	m := g.ToDense()
	assert.True(t, mat.Equal(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}), m))

	m.Set(0, 0, 99)
	assert.Equal(t, 1.0, g.At(0, 0))
}
