// Algorithm registry shared by the pipeline, the CLI and the job worker
package algorithms

import (
	"fmt"
	"sort"
	"sync"

	"image-filter-engine/internal/grid"
)

// Algorithm defines the interface for grayscale filters addressed by name
type Algorithm interface {
	Apply(input *grid.Grid, params map[string]interface{}, opts ...Option) (*grid.Grid, error)
	GetDefaultParams() map[string]interface{}
	GetName() string
	GetDescription() string
	Validate(params map[string]interface{}) error
	GetParameterInfo() []ParameterInfo
}

// ParameterInfo describes a parameter for UI and CLI help generation
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "int", "float", "enum"
	Min         interface{} `json:"min,omitempty"`
	Max         interface{} `json:"max,omitempty"`
	Default     interface{} `json:"default"`
	Description string      `json:"description"`
	Options     []string    `json:"options,omitempty"`
}

var (
	mu         sync.RWMutex
	algorithms = make(map[string]Algorithm)
)

func Register(name string, algorithm Algorithm) {
	mu.Lock()
	defer mu.Unlock()
	algorithms[name] = algorithm
}

func Get(name string) (Algorithm, bool) {
	mu.RLock()
	defer mu.RUnlock()
	algorithm, exists := algorithms[name]
	return algorithm, exists
}

func Apply(name string, input *grid.Grid, params map[string]interface{}, opts ...Option) (*grid.Grid, error) {
	algorithm, exists := Get(name)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}

	return algorithm.Apply(input, params, opts...)
}

func ValidateParameters(name string, params map[string]interface{}) error {
	algorithm, exists := Get(name)
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}

	return algorithm.Validate(params)
}

func IsValidAlgorithm(name string) bool {
	_, exists := Get(name)
	return exists
}

// Names returns the registered algorithm names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func GetAllAlgorithms() map[string]Algorithm {
	mu.RLock()
	defer mu.RUnlock()
	result := make(map[string]Algorithm, len(algorithms))
	for name, algorithm := range algorithms {
		result[name] = algorithm
	}
	return result
}

func GetAlgorithmsByCategory() map[string][]string {
	return map[string][]string{
		"Smoothing": {
			"gaussian",
			"median",
			"bilateral",
		},
		"Edges": {
			"sobel",
			"laplacian",
		},
	}
}

func init() {
	Register("gaussian", NewGaussianFilter())
	Register("median", NewMedianFilter())
	Register("bilateral", NewBilateralFilter())
	Register("sobel", NewSobelFilter())
	Register("laplacian", NewLaplacianFilter())
}
