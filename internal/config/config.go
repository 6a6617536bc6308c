// Configuration for the CLI, the viewer and the job worker
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"image-filter-engine/internal/algorithms"
)

// Config is read from a TOML or YAML file; unset fields keep Default values
type Config struct {
	Debug   bool `toml:"debug" yaml:"debug"`
	Workers int  `toml:"workers" yaml:"workers"`

	// Filters overrides default parameters per algorithm name
	Filters map[string]map[string]interface{} `toml:"filters" yaml:"filters"`

	// Steps is the pipeline run by `filterctl run`
	Steps []StepConfig `toml:"steps" yaml:"steps"`

	Redis RedisConfig `toml:"redis" yaml:"redis"`
}

type StepConfig struct {
	Algorithm string                 `toml:"algorithm" yaml:"algorithm"`
	Params    map[string]interface{} `toml:"params" yaml:"params"`
}

type RedisConfig struct {
	Addr          string        `toml:"addr" yaml:"addr"`
	Password      string        `toml:"password" yaml:"password"`
	DB            int           `toml:"db" yaml:"db"`
	JobsStream    string        `toml:"jobs_stream" yaml:"jobs_stream"`
	ResultsStream string        `toml:"results_stream" yaml:"results_stream"`
	Group         string        `toml:"group" yaml:"group"`
	Block         time.Duration `toml:"block" yaml:"block"`
	ClaimIdle     time.Duration `toml:"claim_idle" yaml:"claim_idle"`
}

func Default() *Config {
	return &Config{
		Workers: 1,
		Filters: map[string]map[string]interface{}{},
		Redis: RedisConfig{
			Addr:          "localhost:6379",
			JobsStream:    "filters:jobs",
			ResultsStream: "filters:results",
			Group:         "filter-workers",
			Block:         5 * time.Second,
			ClaimIdle:     time.Minute,
		},
	}
}

// Load reads path, choosing the decoder by extension (.toml, .yaml, .yml)
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks algorithm names and parameters against the registry
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	for name, params := range c.Filters {
		if err := algorithms.ValidateParameters(name, c.Params(name, params)); err != nil {
			return fmt.Errorf("filters.%s: %w", name, err)
		}
	}
	for i, step := range c.Steps {
		if err := algorithms.ValidateParameters(step.Algorithm, c.Params(step.Algorithm, step.Params)); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

// Params merges, from lowest to highest precedence, the algorithm defaults,
// the [filters.<name>] table and overrides.
func (c *Config) Params(name string, overrides map[string]interface{}) map[string]interface{} {
	params := map[string]interface{}{}
	if algorithm, ok := algorithms.Get(name); ok {
		for k, v := range algorithm.GetDefaultParams() {
			params[k] = v
		}
	}
	for k, v := range c.Filters[name] {
		params[k] = v
	}
	for k, v := range overrides {
		params[k] = v
	}
	return params
}
