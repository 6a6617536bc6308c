package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-engine/internal/algorithms"
	"image-filter-engine/internal/grid"
)

func checker(w, h int) *grid.Grid {
	g := grid.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				g.Set(x, y, 200)
			} else {
				g.Set(x, y, 40)
			}
		}
	}
	return g
}

func TestIdenticalImages(t *testing.T) {
	e := NewEvaluator()
	img := checker(8, 8)

	psnr, err := e.Calculate("psnr", img, img.Clone())
	require.NoError(t, err)
	assert.True(t, math.IsInf(psnr, 1))

	ssim, err := e.Calculate("ssim", img, img.Clone())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ssim, 1e-12)

	mse, err := e.Calculate("mse", img, img)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mse)

	mae, err := e.Calculate("mae", img, img)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mae)
}

func TestKnownValues(t *testing.T) {
	a := grid.Filled(4, 4, 100)
	b := grid.Filled(4, 4, 110)

	mse, err := NewMSE().Calculate(a, b)
	require.NoError(t, err)
	assert.Equal(t, 100.0, mse)

	mae, err := NewMAE().Calculate(a, b)
	require.NoError(t, err)
	assert.Equal(t, 10.0, mae)

	psnr, err := NewPSNR().Calculate(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 20*math.Log10(25.5), psnr, 1e-9)
}

func TestDimensionMismatch(t *testing.T) {
	for name, m := range map[string]Metric{"psnr": NewPSNR(), "ssim": NewSSIM(), "mse": NewMSE(), "mae": NewMAE()} {
		_, err := m.Calculate(grid.Filled(2, 2, 0), grid.Filled(3, 2, 0))
		assert.ErrorIs(t, err, errMismatch, name)
		_, err = m.Calculate(nil, grid.Filled(3, 2, 0))
		assert.ErrorIs(t, err, errEmpty, name)
	}
}

func TestSmoothingLowersSharpness(t *testing.T) {
	img := checker(12, 12)
	blurred, err := algorithms.GaussianBlur(img, 5, 1.5)
	require.NoError(t, err)

	sharp, err := NewSharpness().Calculate(img, blurred)
	require.NoError(t, err)
	assert.Less(t, sharp, 0.5)

	contrast, err := NewContrastRatio().Calculate(img, blurred)
	require.NoError(t, err)
	assert.Less(t, contrast, 1.0)

	flat := grid.Filled(4, 4, 3)
	ratio, err := NewContrastRatio().Calculate(flat, img.Clone())
	require.NoError(t, err)
	assert.Equal(t, 1.0, ratio)
}

func TestEvaluateStep(t *testing.T) {
	e := NewEvaluator()
	img := checker(10, 10)
	out, err := algorithms.MedianBlur(img, 3)
	require.NoError(t, err)

	m := e.EvaluateStep(img, out, "median")
	assert.Contains(t, m, "psnr")
	assert.Contains(t, m, "ssim")
	assert.Contains(t, m, "contrast_preservation")
	assert.Contains(t, m, "edge_preservation")

	edges, err := algorithms.LaplacianEdges(img, 3)
	require.NoError(t, err)
	m = e.EvaluateStep(img, edges, "laplacian")
	assert.Contains(t, m, "edge_response")
}

func TestGenerateReport(t *testing.T) {
	e := NewEvaluator()
	img := checker(6, 6)

	report := e.GenerateReport(img, img.Clone())
	// Ratio metrics sit at the middle of their range when nothing changed.
	assert.InDelta(t, 85.0, report.OverallScore, 1e-9)
	assert.Equal(t, "good", report.Analysis.QualityLevel)
	assert.Empty(t, report.Analysis.Issues)
	assert.NotEmpty(t, report.Timestamp)

	info := e.GetMetricInfo()
	assert.False(t, info["mse"].HigherBetter)
	assert.Equal(t, [2]float64{-1, 1}, info["ssim"].Range)

	_, err := e.Calculate("fsim", img, img)
	assert.Error(t, err)
}

func TestSSIMWorkedExample(t *testing.T) {
	const (
		c1 = 6.5025
		c2 = 58.5225
	)
	a := grid.MustFromRows([][]float64{{0, 255}, {0, 255}})
	inverted := grid.MustFromRows([][]float64{{255, 0}, {255, 0}})

	// Both means are 127.5 and both variances 127.5^2; inversion makes the
	// covariance the negated variance.
	mu, v := 127.5, 127.5*127.5
	want := (2*mu*mu + c1) * (-2*v + c2) / ((2*mu*mu + c1) * (2*v + c2))

	got, err := NewSSIM().Calculate(a, inverted)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)
	assert.Less(t, got, 0.0)

	shifted := grid.MustFromRows([][]float64{{10, 20}, {30, 40}})
	base := grid.MustFromRows([][]float64{{0, 10}, {20, 30}})
	// Equal variances (125) and full covariance; only the means differ.
	want = (2*15*25 + c1) * (2*125 + c2) / ((15*15 + 25*25 + c1) * (2*125 + c2))
	got, err = NewSSIM().Calculate(base, shifted)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)
}
