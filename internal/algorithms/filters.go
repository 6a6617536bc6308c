// Registry adapters for the smoothing and edge filters
package algorithms

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"image-filter-engine/internal/grid"
)

// GaussianFilter implements Gaussian blur filter
type GaussianFilter struct{}

// NewGaussianFilter creates a new Gaussian filter algorithm
func NewGaussianFilter() *GaussianFilter {
	return &GaussianFilter{}
}

func (g *GaussianFilter) parse(params map[string]interface{}) (size int, sigma float64, err error) {
	if size, err = intParam(params, "kernel_size", DefaultGaussianSize); err != nil {
		return
	}
	if sigma, err = floatParam(params, "sigma", DefaultGaussianSigma); err != nil {
		return
	}
	if err = checkRange("kernel_size", float64(size), 1, 31); err != nil {
		return
	}
	if err = checkWindow("kernel_size", size); err != nil {
		return
	}
	if err = checkSigma("sigma", sigma); err != nil {
		return
	}
	err = checkRange("sigma", sigma, 0.01, 50)
	return
}

func (g *GaussianFilter) Apply(input *grid.Grid, params map[string]interface{}, opts ...Option) (*grid.Grid, error) {
	if input.Empty() {
		return nil, ErrEmptyImage
	}
	size, sigma, err := g.parse(params)
	if err != nil {
		return nil, err
	}
	return GaussianBlur(input, size, sigma, opts...)
}

func (g *GaussianFilter) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"kernel_size": float64(DefaultGaussianSize),
		"sigma":       DefaultGaussianSigma,
	}
}

func (g *GaussianFilter) GetName() string {
	return "Gaussian Blur"
}

func (g *GaussianFilter) GetDescription() string {
	return "Gaussian blur for general noise reduction"
}

func (g *GaussianFilter) Validate(params map[string]interface{}) error {
	_, _, err := g.parse(params)
	return err
}

func (g *GaussianFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "kernel_size",
			Type:        "int",
			Min:         1.0,
			Max:         31.0,
			Default:     float64(DefaultGaussianSize),
			Description: "Size of the Gaussian kernel (must be odd)",
		},
		{
			Name:        "sigma",
			Type:        "float",
			Min:         0.01,
			Max:         50.0,
			Default:     DefaultGaussianSigma,
			Description: "Standard deviation of the Gaussian",
		},
	}
}

// MedianFilter implements median filter
type MedianFilter struct{}

// NewMedianFilter creates a new median filter algorithm
func NewMedianFilter() *MedianFilter {
	return &MedianFilter{}
}

func (m *MedianFilter) parse(params map[string]interface{}) (int, error) {
	size, err := intParam(params, "kernel_size", DefaultMedianSize)
	if err != nil {
		return 0, err
	}
	if err := checkRange("kernel_size", float64(size), 1, 15); err != nil {
		return 0, err
	}
	return size, checkWindow("kernel_size", size)
}

func (m *MedianFilter) Apply(input *grid.Grid, params map[string]interface{}, opts ...Option) (*grid.Grid, error) {
	if input.Empty() {
		return nil, ErrEmptyImage
	}
	size, err := m.parse(params)
	if err != nil {
		return nil, err
	}
	return MedianBlur(input, size, opts...)
}

func (m *MedianFilter) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"kernel_size": float64(DefaultMedianSize),
	}
}

func (m *MedianFilter) GetName() string {
	return "Median Blur"
}

func (m *MedianFilter) GetDescription() string {
	return "Median filter to remove salt-and-pepper noise"
}

func (m *MedianFilter) Validate(params map[string]interface{}) error {
	_, err := m.parse(params)
	return err
}

func (m *MedianFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "kernel_size",
			Type:        "int",
			Min:         1.0,
			Max:         15.0,
			Default:     float64(DefaultMedianSize),
			Description: "Size of the median filter window (must be odd)",
		},
	}
}

// BilateralFilterAlgorithm implements bilateral filter
type BilateralFilterAlgorithm struct{}

// NewBilateralFilter creates a new bilateral filter algorithm
func NewBilateralFilter() *BilateralFilterAlgorithm {
	return &BilateralFilterAlgorithm{}
}

type bilateralParams struct {
	d          int
	sigmaColor float64
	sigmaSpace float64
}

func (b *BilateralFilterAlgorithm) parse(params map[string]interface{}) (p bilateralParams, err error) {
	if p.d, err = intParam(params, "d", DefaultBilateralDiameter); err != nil {
		return
	}
	if p.sigmaColor, err = floatParam(params, "sigma_color", DefaultBilateralSigmaColor); err != nil {
		return
	}
	if p.sigmaSpace, err = floatParam(params, "sigma_space", DefaultBilateralSigmaSpace); err != nil {
		return
	}
	if err = checkRange("d", float64(p.d), 1, 31); err != nil {
		return
	}
	if err = checkWindow("d", p.d); err != nil {
		return
	}
	if err = checkRange("sigma_color", p.sigmaColor, 0.1, 500); err != nil {
		return
	}
	err = checkRange("sigma_space", p.sigmaSpace, 0.1, 500)
	return
}

func (b *BilateralFilterAlgorithm) Apply(input *grid.Grid, params map[string]interface{}, opts ...Option) (*grid.Grid, error) {
	if input.Empty() {
		return nil, ErrEmptyImage
	}
	p, err := b.parse(params)
	if err != nil {
		return nil, err
	}
	return BilateralFilter(input, p.d, p.sigmaColor, p.sigmaSpace, opts...)
}

func (b *BilateralFilterAlgorithm) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"d":           float64(DefaultBilateralDiameter),
		"sigma_color": DefaultBilateralSigmaColor,
		"sigma_space": DefaultBilateralSigmaSpace,
	}
}

func (b *BilateralFilterAlgorithm) GetName() string {
	return "Bilateral Filter"
}

func (b *BilateralFilterAlgorithm) GetDescription() string {
	return "Bilateral filter for edge-preserving smoothing"
}

func (b *BilateralFilterAlgorithm) Validate(params map[string]interface{}) error {
	_, err := b.parse(params)
	return err
}

func (b *BilateralFilterAlgorithm) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "d",
			Type:        "int",
			Min:         1.0,
			Max:         31.0,
			Default:     float64(DefaultBilateralDiameter),
			Description: "Diameter of each pixel neighborhood",
		},
		{
			Name:        "sigma_color",
			Type:        "float",
			Min:         0.1,
			Max:         500.0,
			Default:     DefaultBilateralSigmaColor,
			Description: "Filter sigma in the intensity space",
		},
		{
			Name:        "sigma_space",
			Type:        "float",
			Min:         0.1,
			Max:         500.0,
			Default:     DefaultBilateralSigmaSpace,
			Description: "Filter sigma in the coordinate space",
		},
	}
}

// SobelFilter implements first-derivative edge detection
type SobelFilter struct{}

// NewSobelFilter creates a new Sobel edge algorithm
func NewSobelFilter() *SobelFilter {
	return &SobelFilter{}
}

func (s *SobelFilter) parse(params map[string]interface{}) (dx, dy, ksize int, err error) {
	if dx, err = intParam(params, "dx", 1); err != nil {
		return
	}
	if dy, err = intParam(params, "dy", 0); err != nil {
		return
	}
	if ksize, err = intParam(params, "ksize", DefaultEdgeKernelSize); err != nil {
		return
	}
	_, err = SobelKernel(dx, dy, ksize)
	return
}

func (s *SobelFilter) Apply(input *grid.Grid, params map[string]interface{}, opts ...Option) (*grid.Grid, error) {
	if input.Empty() {
		return nil, ErrEmptyImage
	}
	dx, dy, ksize, err := s.parse(params)
	if err != nil {
		return nil, err
	}
	return SobelEdges(input, dx, dy, ksize, opts...)
}

func (s *SobelFilter) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"dx":    1.0,
		"dy":    0.0,
		"ksize": float64(DefaultEdgeKernelSize),
	}
}

func (s *SobelFilter) GetName() string {
	return "Sobel Edge Detection"
}

func (s *SobelFilter) GetDescription() string {
	return "Horizontal or vertical intensity gradient"
}

func (s *SobelFilter) Validate(params map[string]interface{}) error {
	_, _, _, err := s.parse(params)
	return err
}

func (s *SobelFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "dx",
			Type:        "int",
			Min:         0.0,
			Max:         1.0,
			Default:     1.0,
			Description: "Derivative order in x (1 with dy=0)",
		},
		{
			Name:        "dy",
			Type:        "int",
			Min:         0.0,
			Max:         1.0,
			Default:     0.0,
			Description: "Derivative order in y (1 with dx=0)",
		},
		{
			Name:        "ksize",
			Type:        "enum",
			Default:     float64(DefaultEdgeKernelSize),
			Description: "Kernel size",
			Options:     []string{"3"},
		},
	}
}

// LaplacianFilter implements second-derivative edge detection
type LaplacianFilter struct{}

// NewLaplacianFilter creates a new Laplacian edge algorithm
func NewLaplacianFilter() *LaplacianFilter {
	return &LaplacianFilter{}
}

func (l *LaplacianFilter) parse(params map[string]interface{}) (int, error) {
	ksize, err := intParam(params, "ksize", DefaultEdgeKernelSize)
	if err != nil {
		return 0, err
	}
	_, err = LaplacianKernel(ksize)
	return ksize, err
}

func (l *LaplacianFilter) Apply(input *grid.Grid, params map[string]interface{}, opts ...Option) (*grid.Grid, error) {
	if input.Empty() {
		return nil, ErrEmptyImage
	}
	ksize, err := l.parse(params)
	if err != nil {
		return nil, err
	}
	return LaplacianEdges(input, ksize, opts...)
}

func (l *LaplacianFilter) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"ksize": float64(DefaultEdgeKernelSize),
	}
}

func (l *LaplacianFilter) GetName() string {
	return "Laplacian Edge Detection"
}

func (l *LaplacianFilter) GetDescription() string {
	return "Second-derivative response highlighting blobs and edges"
}

func (l *LaplacianFilter) Validate(params map[string]interface{}) error {
	_, err := l.parse(params)
	return err
}

func (l *LaplacianFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "ksize",
			Type:        "enum",
			Default:     float64(DefaultEdgeKernelSize),
			Description: "Kernel size",
			Options:     []string{"3"},
		},
	}
}

// DescribeParams renders parameters in a stable key=value form for logs.
func DescribeParams(params map[string]interface{}) string {
	parts := make([]string, 0, len(params))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, " ")
}
