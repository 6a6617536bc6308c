// Sequential processing pipeline over registered filters
package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"image-filter-engine/internal/algorithms"
	"image-filter-engine/internal/grid"
	"image-filter-engine/internal/metrics"
)

// ProcessingStep represents a sequential processing step
type ProcessingStep struct {
	Algorithm  string                 `json:"algorithm" toml:"algorithm" yaml:"algorithm"`
	Parameters map[string]interface{} `json:"parameters,omitempty" toml:"parameters" yaml:"parameters"`
	Enabled    bool                   `json:"enabled" toml:"enabled" yaml:"enabled"`
}

// StepResult records what one executed step did
type StepResult struct {
	Index     int
	Algorithm string
	Duration  time.Duration
	Metrics   map[string]float64
}

// Result is the outcome of Pipeline.Process
type Result struct {
	Output *grid.Grid
	Steps  []StepResult
}

// Pipeline applies enabled steps in order, feeding each output to the next step
type Pipeline struct {
	mu          sync.RWMutex
	steps       []ProcessingStep
	logger      logrus.FieldLogger
	metricsEval *metrics.Evaluator
	workers     int
	evaluate    bool
}

func NewPipeline(logger logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		steps:       make([]ProcessingStep, 0),
		logger:      logger,
		metricsEval: metrics.NewEvaluator(),
		workers:     1,
	}
}

// SetWorkers sets how many goroutines each filter may use for its rows.
func (p *Pipeline) SetWorkers(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.workers = n
}

// SetEvaluateSteps toggles per-step quality metrics.
func (p *Pipeline) SetEvaluateSteps(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evaluate = enabled
}

// AddStep validates and appends a step
func (p *Pipeline) AddStep(algorithm string, parameters map[string]interface{}) error {
	if !algorithms.IsValidAlgorithm(algorithm) {
		return fmt.Errorf("%w: %s", algorithms.ErrUnknownAlgorithm, algorithm)
	}

	if err := algorithms.ValidateParameters(algorithm, parameters); err != nil {
		return fmt.Errorf("invalid parameters for %s: %w", algorithm, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.steps = append(p.steps, ProcessingStep{
		Algorithm:  algorithm,
		Parameters: parameters,
		Enabled:    true,
	})
	p.logger.WithFields(logrus.Fields{
		"algorithm": algorithm,
		"params":    algorithms.DescribeParams(parameters),
		"index":     len(p.steps) - 1,
	}).Debug("PIPELINE: Step added")

	return nil
}

// RemoveStep deletes the step at index
func (p *Pipeline) RemoveStep(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.steps) {
		return fmt.Errorf("step index out of range: %d", index)
	}
	p.steps = append(p.steps[:index], p.steps[index+1:]...)
	return nil
}

// SetStepEnabled enables or disables the step at index
func (p *Pipeline) SetStepEnabled(index int, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.steps) {
		return fmt.Errorf("step index out of range: %d", index)
	}
	p.steps[index].Enabled = enabled
	return nil
}

// GetSteps returns a copy of the configured steps
func (p *Pipeline) GetSteps() []ProcessingStep {
	p.mu.RLock()
	defer p.mu.RUnlock()

	steps := make([]ProcessingStep, len(p.steps))
	copy(steps, p.steps)
	return steps
}

// Clear removes every step
func (p *Pipeline) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = p.steps[:0]
}

// Process runs the enabled steps over input. The input is never modified.
// With no enabled steps the result is a copy of the input.
func (p *Pipeline) Process(ctx context.Context, input *grid.Grid) (*Result, error) {
	if input.Empty() {
		return nil, algorithms.ErrEmptyImage
	}

	p.mu.RLock()
	steps := make([]ProcessingStep, len(p.steps))
	copy(steps, p.steps)
	workers := p.workers
	evaluate := p.evaluate
	p.mu.RUnlock()

	current := input
	result := &Result{Steps: make([]StepResult, 0, len(steps))}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			p.logger.WithField("step", i).Debug("PIPELINE: Processing cancelled")
			return nil, err
		}

		if !step.Enabled {
			p.logger.WithFields(logrus.Fields{"step": i, "algorithm": step.Algorithm}).Debug("PIPELINE: Skipping disabled step")
			continue
		}

		start := time.Now()
		out, err := algorithms.Apply(step.Algorithm, current, step.Parameters, algorithms.WithWorkers(workers))
		if err != nil {
			p.logger.WithFields(logrus.Fields{"step": i, "algorithm": step.Algorithm}).WithError(err).Error("PIPELINE: Step failed")
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Algorithm, err)
		}

		sr := StepResult{Index: i, Algorithm: step.Algorithm, Duration: time.Since(start)}
		if evaluate {
			sr.Metrics = p.metricsEval.EvaluateStep(current, out, step.Algorithm)
		}
		result.Steps = append(result.Steps, sr)

		p.logger.WithFields(logrus.Fields{
			"step":        i,
			"algorithm":   step.Algorithm,
			"duration_ms": sr.Duration.Milliseconds(),
		}).Debug("PIPELINE: Step completed")

		current = out
	}

	if current == input {
		current = input.Clone()
	}
	result.Output = current
	return result, nil
}
