// Concrete implementations of quality metrics
package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"image-filter-engine/internal/algorithms"
	"image-filter-engine/internal/grid"
)

var (
	errEmpty    = errors.New("empty images")
	errMismatch = errors.New("image dimensions mismatch")
)

const maxSample = 255.0

func checkPair(original, processed *grid.Grid) error {
	if original.Empty() || processed.Empty() {
		return errEmpty
	}
	if !original.SameSize(processed) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", errMismatch,
			original.Width, original.Height, processed.Width, processed.Height)
	}
	return nil
}

// samples returns the grid samples as one contiguous slice.
func samples(g *grid.Grid) []float64 {
	if g.Stride == g.Width {
		return g.Pix[:g.Width*g.Height]
	}
	return g.Clone().Pix
}

func meanSquaredError(original, processed *grid.Grid) float64 {
	a, b := samples(original), samples(processed)
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum / float64(len(a))
}

// PSNR implements Peak Signal-to-Noise Ratio metric
type PSNR struct{}

// NewPSNR creates a new PSNR metric
func NewPSNR() *PSNR {
	return &PSNR{}
}

func (p *PSNR) Calculate(original, processed *grid.Grid) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	mse := meanSquaredError(original, processed)
	if mse == 0 {
		return math.Inf(1), nil
	}

	return 20 * math.Log10(maxSample/math.Sqrt(mse)), nil
}

func (p *PSNR) GetName() string {
	return "PSNR"
}

func (p *PSNR) GetDescription() string {
	return "Peak Signal-to-Noise Ratio - measures image quality"
}

func (p *PSNR) GetRange() (float64, float64) {
	return 0, 100
}

func (p *PSNR) IsHigherBetter() bool {
	return true
}

// SSIM implements a global Structural Similarity Index over the whole grid
type SSIM struct{}

// NewSSIM creates a new SSIM metric
func NewSSIM() *SSIM {
	return &SSIM{}
}

func (s *SSIM) Calculate(original, processed *grid.Grid) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	const (
		C1 = 6.5025  // (0.01 * 255)^2
		C2 = 58.5225 // (0.03 * 255)^2
	)

	a, b := original.ToDense(), processed.ToDense()
	n := float64(original.Width * original.Height)
	muA, muB := mat.Sum(a)/n, mat.Sum(b)/n

	a.Apply(func(_, _ int, v float64) float64 { return v - muA }, a)
	b.Apply(func(_, _ int, v float64) float64 { return v - muB }, b)

	var prod mat.Dense
	prod.MulElem(a, a)
	varA := mat.Sum(&prod) / n
	prod.MulElem(b, b)
	varB := mat.Sum(&prod) / n
	prod.MulElem(a, b)
	cov := mat.Sum(&prod) / n

	num := (2*muA*muB + C1) * (2*cov + C2)
	den := (muA*muA + muB*muB + C1) * (varA + varB + C2)
	return num / den, nil
}

func (s *SSIM) GetName() string {
	return "SSIM"
}

func (s *SSIM) GetDescription() string {
	return "Structural Similarity Index - measures structural similarity"
}

func (s *SSIM) GetRange() (float64, float64) {
	return -1, 1
}

func (s *SSIM) IsHigherBetter() bool {
	return true
}

// MSE implements Mean Squared Error metric
type MSE struct{}

// NewMSE creates a new MSE metric
func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed *grid.Grid) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}
	return meanSquaredError(original, processed), nil
}

func (m *MSE) GetName() string {
	return "MSE"
}

func (m *MSE) GetDescription() string {
	return "Mean Squared Error - lower values indicate better quality"
}

func (m *MSE) GetRange() (float64, float64) {
	return 0, maxSample * maxSample
}

func (m *MSE) IsHigherBetter() bool {
	return false
}

// MAE implements Mean Absolute Error metric
type MAE struct{}

// NewMAE creates a new MAE metric
func NewMAE() *MAE {
	return &MAE{}
}

func (m *MAE) Calculate(original, processed *grid.Grid) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}
	a, b := samples(original), samples(processed)
	sum := 0.0
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum / float64(len(a)), nil
}

func (m *MAE) GetName() string {
	return "MAE"
}

func (m *MAE) GetDescription() string {
	return "Mean Absolute Error - average per-sample change"
}

func (m *MAE) GetRange() (float64, float64) {
	return 0, maxSample
}

func (m *MAE) IsHigherBetter() bool {
	return false
}

// ContrastRatio implements contrast ratio metric
type ContrastRatio struct{}

// NewContrastRatio creates a new contrast ratio metric
func NewContrastRatio() *ContrastRatio {
	return &ContrastRatio{}
}

func (c *ContrastRatio) Calculate(original, processed *grid.Grid) (float64, error) {
	if original.Empty() || processed.Empty() {
		return 0, errEmpty
	}

	origContrast := stdDev(samples(original))
	procContrast := stdDev(samples(processed))

	if origContrast == 0 {
		return 1.0, nil
	}

	return procContrast / origContrast, nil
}

func (c *ContrastRatio) GetName() string {
	return "Contrast Ratio"
}

func (c *ContrastRatio) GetDescription() string {
	return "Ratio of contrast preservation"
}

func (c *ContrastRatio) GetRange() (float64, float64) {
	return 0, 2
}

func (c *ContrastRatio) IsHigherBetter() bool {
	return true
}

// Sharpness compares the variance of the Laplacian response before and after
type Sharpness struct{}

// NewSharpness creates a new sharpness metric
func NewSharpness() *Sharpness {
	return &Sharpness{}
}

func (s *Sharpness) Calculate(original, processed *grid.Grid) (float64, error) {
	if original.Empty() || processed.Empty() {
		return 0, errEmpty
	}

	origSharpness, err := laplacianVariance(original)
	if err != nil {
		return 0, err
	}
	procSharpness, err := laplacianVariance(processed)
	if err != nil {
		return 0, err
	}

	if origSharpness == 0 {
		return 1.0, nil
	}

	return procSharpness / origSharpness, nil
}

func (s *Sharpness) GetName() string {
	return "Sharpness"
}

func (s *Sharpness) GetDescription() string {
	return "Edge preservation measure"
}

func (s *Sharpness) GetRange() (float64, float64) {
	return 0, 2
}

func (s *Sharpness) IsHigherBetter() bool {
	return true
}

func laplacianVariance(g *grid.Grid) (float64, error) {
	lap, err := algorithms.LaplacianEdges(g, algorithms.DefaultEdgeKernelSize)
	if err != nil {
		return 0, err
	}
	_, variance := stat.PopMeanVariance(lap.Pix, nil)
	return variance, nil
}

func stdDev(x []float64) float64 {
	_, variance := stat.PopMeanVariance(x, nil)
	return math.Sqrt(variance)
}
