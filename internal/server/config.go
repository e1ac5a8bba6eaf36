package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/homewall/wallsense/internal/analysis"
)

// FileConfig is the on-disk configuration for the wallsense server.
//
// Every field is optional; zero values fall back to the defaults below.
// Command-line flags override file values.
type FileConfig struct {
	// Listen is the address the HTTP server binds to, e.g. ":8080".
	Listen string `yaml:"listen"`

	// MaxImageDim bounds the larger dimension of fetched images; larger
	// inputs are downscaled before analysis. 0 disables downscaling.
	MaxImageDim int `yaml:"maxImageDim"`

	// Pipeline thresholds; see analysis.Config for their effects.
	EdgeThreshold       float64 `yaml:"edgeThreshold"`
	ConfidenceThreshold float64 `yaml:"confidenceThreshold"`
	KMeansIterations    int     `yaml:"kMeansIterations"`
	SampleStride        int     `yaml:"sampleStride"`
}

// Server-level defaults. Pipeline defaults live in the analysis package.
const (
	DefaultListen      = ":8080"
	DefaultMaxImageDim = 4096
)

// DefaultFileConfig returns the configuration used when no file is given.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Listen:      DefaultListen,
		MaxImageDim: DefaultMaxImageDim,
	}
}

// LoadFileConfig reads and parses a YAML configuration file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultFileConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	return &cfg, nil
}

// Analysis converts the file configuration into pipeline thresholds.
// Unset fields stay zero and pick up the pipeline defaults on first use.
func (c *FileConfig) Analysis() analysis.Config {
	return analysis.Config{
		EdgeThreshold:       c.EdgeThreshold,
		ConfidenceThreshold: c.ConfidenceThreshold,
		KMeansIterations:    c.KMeansIterations,
		SampleStride:        c.SampleStride,
	}
}
