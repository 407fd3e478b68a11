// Package config loads and validates caselex configuration.
//
// Configuration is resolved in priority order:
//  1. Built-in defaults
//  2. Project config file (.caselex.yaml in the working directory)
//  3. Environment variables (CASELEX_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project configuration file name.
const ConfigFileName = ".caselex.yaml"

// Config represents the complete caselex configuration.
type Config struct {
	Version     int               `yaml:"version" json:"version"`
	Paths       PathsConfig       `yaml:"paths" json:"paths"`
	Embeddings  EmbeddingsConfig  `yaml:"embeddings" json:"embeddings"`
	Performance PerformanceConfig `yaml:"performance" json:"performance"`
}

// PathsConfig configures the pipeline's data directories.
type PathsConfig struct {
	// DataDir is the root data directory.
	DataDir string `yaml:"data_dir" json:"data_dir"`
	// CaseDir holds normalized canonical records, one JSON file per record.
	CaseDir string `yaml:"case_dir" json:"case_dir"`
	// VectorDir holds the persisted vector store and its metadata sidecar.
	VectorDir string `yaml:"vector_dir" json:"vector_dir"`
	// SourceDir is the default root for raw source files, one
	// subdirectory per source type (e.g. sources/scotus).
	SourceDir string `yaml:"source_dir" json:"source_dir"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Model is the embedding model identifier recorded in store metadata.
	Model string `yaml:"model" json:"model"`
	// Dimensions is the embedding vector length.
	Dimensions int `yaml:"dimensions" json:"dimensions"`
	// BatchSize is the number of texts embedded per batch.
	BatchSize int `yaml:"batch_size" json:"batch_size"`
	// CacheSize is the number of embeddings kept in the LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// PerformanceConfig configures normalization dispatch.
type PerformanceConfig struct {
	// Workers is the worker pool size for parallel normalization.
	// Zero means runtime.NumCPU().
	Workers int `yaml:"workers" json:"workers"`
	// ParallelThreshold is the batch size above which normalization
	// switches to the worker pool automatically.
	ParallelThreshold int `yaml:"parallel_threshold" json:"parallel_threshold"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			DataDir:   "data",
			CaseDir:   filepath.Join("data", "cases"),
			VectorDir: filepath.Join("data", "vectors"),
			SourceDir: filepath.Join("data", "sources"),
		},
		Embeddings: EmbeddingsConfig{
			Model:      "hash-embedder-256",
			Dimensions: 256,
			BatchSize:  32,
			CacheSize:  1000,
		},
		Performance: PerformanceConfig{
			Workers:           0,
			ParallelThreshold: 10,
		},
	}
}

// Load reads configuration from the given directory, applying defaults
// and environment overrides. A missing config file is not an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the given directory as YAML.
func (c *Config) Save(dir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Embeddings.Dimensions <= 0 {
		return fmt.Errorf("embeddings.dimensions must be positive, got %d", c.Embeddings.Dimensions)
	}
	if c.Embeddings.BatchSize <= 0 {
		return fmt.Errorf("embeddings.batch_size must be positive, got %d", c.Embeddings.BatchSize)
	}
	if c.Performance.Workers < 0 {
		return fmt.Errorf("performance.workers must not be negative, got %d", c.Performance.Workers)
	}
	if c.Performance.ParallelThreshold < 0 {
		return fmt.Errorf("performance.parallel_threshold must not be negative, got %d", c.Performance.ParallelThreshold)
	}
	return nil
}

// EffectiveWorkers resolves the worker pool size.
func (c *Config) EffectiveWorkers() int {
	if c.Performance.Workers > 0 {
		return c.Performance.Workers
	}
	return runtime.NumCPU()
}

// applyEnvOverrides applies CASELEX_* environment variables.
// Env vars take priority over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CASELEX_DATA_DIR"); v != "" {
		cfg.Paths.DataDir = v
		cfg.Paths.CaseDir = filepath.Join(v, "cases")
		cfg.Paths.VectorDir = filepath.Join(v, "vectors")
		cfg.Paths.SourceDir = filepath.Join(v, "sources")
	}
	if v := os.Getenv("CASELEX_CASE_DIR"); v != "" {
		cfg.Paths.CaseDir = v
	}
	if v := os.Getenv("CASELEX_VECTOR_DIR"); v != "" {
		cfg.Paths.VectorDir = v
	}
	if v := os.Getenv("CASELEX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Performance.Workers = n
		}
	}
	if v := os.Getenv("CASELEX_EMBED_DIM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Embeddings.Dimensions = n
		}
	}
}
