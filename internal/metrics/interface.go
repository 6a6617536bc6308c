// Quality metrics comparing a grid with its filtered result
package metrics

import (
	"fmt"
	"time"

	"image-filter-engine/internal/grid"
)

// Metric defines the interface for quality metrics
type Metric interface {
	// Calculate computes the metric value
	Calculate(original, processed *grid.Grid) (float64, error)

	// GetName returns the metric name
	GetName() string

	// GetDescription returns the metric description
	GetDescription() string

	// GetRange returns the value range (min, max)
	GetRange() (float64, float64)

	// IsHigherBetter returns true if higher values indicate better quality
	IsHigherBetter() bool
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates a new metrics evaluator
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}

	e.RegisterDefaultMetrics()

	return e
}

// RegisterDefaultMetrics registers all default metrics
func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("psnr", NewPSNR())
	e.Register("ssim", NewSSIM())
	e.Register("mse", NewMSE())
	e.Register("mae", NewMAE())
	e.Register("contrast_ratio", NewContrastRatio())
	e.Register("sharpness", NewSharpness())
}

// Register registers a metric
func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Calculate calculates a specific metric
func (e *Evaluator) Calculate(name string, original, processed *grid.Grid) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}

	return metric.Calculate(original, processed)
}

// CalculateAll calculates all registered metrics, skipping those that fail
func (e *Evaluator) CalculateAll(original, processed *grid.Grid) map[string]float64 {
	results := make(map[string]float64)

	for name, metric := range e.metrics {
		if value, err := metric.Calculate(original, processed); err == nil {
			results[name] = value
		}
	}

	return results
}

// EvaluateStep calculates metrics for a processing step
func (e *Evaluator) EvaluateStep(before, after *grid.Grid, algorithm string) map[string]float64 {
	metrics := make(map[string]float64)

	if psnr, err := e.Calculate("psnr", before, after); err == nil {
		metrics["psnr"] = psnr
	}

	if ssim, err := e.Calculate("ssim", before, after); err == nil {
		metrics["ssim"] = ssim
	}

	switch algorithm {
	case "gaussian", "median", "bilateral":
		if contrast, err := e.Calculate("contrast_ratio", before, after); err == nil {
			metrics["contrast_preservation"] = contrast
		}
		if sharpness, err := e.Calculate("sharpness", before, after); err == nil {
			metrics["edge_preservation"] = sharpness
		}

	case "sobel", "laplacian":
		if sharpness, err := e.Calculate("sharpness", before, after); err == nil {
			metrics["edge_response"] = sharpness
		}
	}

	return metrics
}

// GetMetricInfo returns information about all metrics
func (e *Evaluator) GetMetricInfo() map[string]MetricInfo {
	info := make(map[string]MetricInfo)

	for name, metric := range e.metrics {
		lo, hi := metric.GetRange()
		info[name] = MetricInfo{
			Name:         metric.GetName(),
			Description:  metric.GetDescription(),
			Range:        [2]float64{lo, hi},
			HigherBetter: metric.IsHigherBetter(),
		}
	}

	return info
}

// MetricInfo provides metadata about a metric
type MetricInfo struct {
	Name         string
	Description  string
	Range        [2]float64 // [min, max]
	HigherBetter bool
}

// QualityReport contains comprehensive quality assessment
type QualityReport struct {
	OverallScore float64            `json:"overall_score"`
	Metrics      map[string]float64 `json:"metrics"`
	Analysis     QualityAnalysis    `json:"analysis"`
	Timestamp    string             `json:"timestamp"`
}

// QualityAnalysis provides interpretation of metrics
type QualityAnalysis struct {
	QualityLevel string   `json:"quality_level"` // "excellent", "good", "fair", "poor"
	Issues       []string `json:"issues"`
	Suggestions  []string `json:"suggestions"`
}

// GenerateReport generates a comprehensive quality report
func (e *Evaluator) GenerateReport(original, processed *grid.Grid) QualityReport {
	metrics := e.CalculateAll(original, processed)

	return QualityReport{
		OverallScore: e.calculateOverallScore(metrics),
		Metrics:      metrics,
		Analysis:     e.analyzeQuality(metrics),
		Timestamp:    time.Now().Format("2006-01-02 15:04:05"),
	}
}

// calculateOverallScore calculates a weighted overall quality score
func (e *Evaluator) calculateOverallScore(metrics map[string]float64) float64 {
	weights := map[string]float64{
		"psnr":           0.35,
		"ssim":           0.35,
		"contrast_ratio": 0.15,
		"sharpness":      0.15,
	}

	totalWeight := 0.0
	weightedSum := 0.0

	for name, weight := range weights {
		if value, exists := metrics[name]; exists {
			weightedSum += e.normalizeMetric(name, value) * weight
			totalWeight += weight
		}
	}

	if totalWeight == 0 {
		return 0
	}

	return (weightedSum / totalWeight) * 100
}

// normalizeMetric normalizes a metric value to 0-1 range
func (e *Evaluator) normalizeMetric(name string, value float64) float64 {
	metric, exists := e.metrics[name]
	if !exists {
		return 0
	}

	lo, hi := metric.GetRange()

	if value < lo {
		value = lo
	}
	if value > hi {
		value = hi
	}

	if hi == lo {
		return 1.0
	}

	normalized := (value - lo) / (hi - lo)

	if !metric.IsHigherBetter() {
		normalized = 1.0 - normalized
	}

	return normalized
}

// analyzeQuality analyzes quality metrics and provides insights
func (e *Evaluator) analyzeQuality(metrics map[string]float64) QualityAnalysis {
	analysis := QualityAnalysis{
		Issues:      make([]string, 0),
		Suggestions: make([]string, 0),
	}

	overallScore := e.calculateOverallScore(metrics)

	switch {
	case overallScore >= 90:
		analysis.QualityLevel = "excellent"
	case overallScore >= 75:
		analysis.QualityLevel = "good"
	case overallScore >= 60:
		analysis.QualityLevel = "fair"
	default:
		analysis.QualityLevel = "poor"
	}

	if psnr, exists := metrics["psnr"]; exists && psnr < 20 {
		analysis.Issues = append(analysis.Issues, "Low PSNR indicates strong deviation from the input")
		analysis.Suggestions = append(analysis.Suggestions, "Use a smaller window or a lower sigma")
	}

	if ssim, exists := metrics["ssim"]; exists && ssim < 0.7 {
		analysis.Issues = append(analysis.Issues, "Low SSIM indicates poor structural similarity")
		analysis.Suggestions = append(analysis.Suggestions, "Prefer the bilateral filter to keep structure")
	}

	if sharp, exists := metrics["sharpness"]; exists && sharp < 0.3 {
		analysis.Issues = append(analysis.Issues, "Most edge energy was removed")
		analysis.Suggestions = append(analysis.Suggestions, "Lower sigma_color or use the median filter")
	}

	return analysis
}
