// Package config carries the tunables shared across partitioning runs.
//
// What: default speed caps for restricted travel times, the high
// betweenness clustering percentile, and parallelism knobs, overridable
// from a YAML file.
//
// Why: the defaults encode the traffic model (15 km/h inside calmed
// cells, 50 km/h on the backbone) and should be set once per study, not
// threaded through every call site.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrBadConfig reports a config that fails validation.
var ErrBadConfig = errors.New("config: invalid value")

// Config are the run-wide settings. The zero value is not usable; start
// from Default.
type Config struct {
	// VMaxLTN is the speed cap in km/h applied to cell edges when deriving
	// restricted travel times.
	VMaxLTN float64 `yaml:"v_max_ltn"`

	// VMaxSparse is the speed cap in km/h for backbone edges.
	VMaxSparse float64 `yaml:"v_max_sparse"`

	// ClusteringPercentile selects the high betweenness node set, in
	// (0, 100).
	ClusteringPercentile float64 `yaml:"clustering_percentile"`

	// NumWorkers bounds the shortest-path worker pool. Zero picks a
	// CPU-derived default.
	NumWorkers int `yaml:"num_workers"`

	// MaxMemFactor scales how many distance rows may be in flight at once.
	MaxMemFactor float64 `yaml:"max_mem_factor"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		VMaxLTN:              15,
		VMaxSparse:           50,
		ClusteringPercentile: 90,
		NumWorkers:           min(32, runtime.NumCPU()+4),
		MaxMemFactor:         1,
	}
}

// Load reads a YAML settings file over the defaults. Keys absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.VMaxLTN <= 0:
		return fmt.Errorf("%w: v_max_ltn %g must be positive", ErrBadConfig, c.VMaxLTN)
	case c.VMaxSparse <= 0:
		return fmt.Errorf("%w: v_max_sparse %g must be positive", ErrBadConfig, c.VMaxSparse)
	case c.ClusteringPercentile <= 0 || c.ClusteringPercentile >= 100:
		return fmt.Errorf("%w: clustering_percentile %g outside (0, 100)",
			ErrBadConfig, c.ClusteringPercentile)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: num_workers %d must not be negative", ErrBadConfig, c.NumWorkers)
	case c.MaxMemFactor < 0:
		return fmt.Errorf("%w: max_mem_factor %g must not be negative", ErrBadConfig, c.MaxMemFactor)
	}
	return nil
}
