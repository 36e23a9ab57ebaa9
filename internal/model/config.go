package model

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultTrainFraction = 0.8
	defaultCVFolds       = 5
	defaultSeed          = 42
	defaultMaxAge        = 100
	defaultTrees         = 100
	defaultMargin        = 0.01
	defaultDBPath        = "analysis.db"
	defaultOutputDir     = "output"
)

// BucketSpec discretizes one continuous column into ordinal bins.
type BucketSpec struct {
	Column      string `yaml:"column"`      // "age" or "page_views"
	Breakpoints []int  `yaml:"breakpoints"` // strictly increasing bin edges
}

// ForestConfig holds random forest hyperparameters.
type ForestConfig struct {
	Trees    int   `yaml:"trees"`
	MtryGrid []int `yaml:"mtryGrid"` // feature subsample sizes tried during CV
	MaxDepth int   `yaml:"maxDepth"` // 0 => unlimited
}

// Config defines an entire analysis run. Every value the original
// notebook kept as ambient global state (seed, split fraction, bin
// breakpoints) is explicit here.
type Config struct {
	InputPath     string       `yaml:"inputPath"`
	DBPath        string       `yaml:"dbPath"`
	OutputDir     string       `yaml:"outputDir"`
	Seed          int64        `yaml:"seed"`
	TrainFraction float64      `yaml:"trainFraction"`
	CVFolds       int          `yaml:"cvFolds"`
	MaxAge        int          `yaml:"maxAge"` // rows with age >= MaxAge are dropped
	Forest        ForestConfig `yaml:"forest"`
	Buckets       []BucketSpec `yaml:"buckets"`
	// AccuracyMargin is the comparability threshold for the
	// sensitivity tie-break between models.
	AccuracyMargin float64 `yaml:"accuracyMargin"`
	LogLevel       string  `yaml:"logLevel"`
}

// DefaultConfig returns a Config populated with the analysis defaults,
// including the hand-chosen bucketing breakpoints.
func DefaultConfig() Config {
	return Config{
		DBPath:        defaultDBPath,
		OutputDir:     defaultOutputDir,
		Seed:          defaultSeed,
		TrainFraction: defaultTrainFraction,
		CVFolds:       defaultCVFolds,
		MaxAge:        defaultMaxAge,
		Forest: ForestConfig{
			Trees:    defaultTrees,
			MtryGrid: []int{2, 3, 5},
		},
		Buckets: []BucketSpec{
			{Column: ColumnAge, Breakpoints: []int{16, 21, 24, 29, 34, 39}},
			{Column: ColumnPageViews, Breakpoints: []int{0, 1, 2, 3, 4, 5, 6, 8}},
		},
		AccuracyMargin: defaultMargin,
		LogLevel:       "info",
	}
}

// LoadConfig reads configuration from a YAML file, applying defaults
// for anything not set.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that would make the run
// meaningless rather than merely slow.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("config: inputPath is required")
	}
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return fmt.Errorf("config: trainFraction must be in (0,1), got %v", c.TrainFraction)
	}
	if c.CVFolds < 2 {
		return fmt.Errorf("config: cvFolds must be >= 2, got %d", c.CVFolds)
	}
	if c.MaxAge <= 0 {
		return fmt.Errorf("config: maxAge must be positive, got %d", c.MaxAge)
	}
	if c.Forest.Trees <= 0 {
		return fmt.Errorf("config: forest.trees must be positive, got %d", c.Forest.Trees)
	}
	if len(c.Forest.MtryGrid) == 0 {
		return fmt.Errorf("config: forest.mtryGrid must not be empty")
	}
	for _, b := range c.Buckets {
		if b.Column != ColumnAge && b.Column != ColumnPageViews {
			return fmt.Errorf("config: cannot bucket column %q", b.Column)
		}
		if len(b.Breakpoints) < 2 {
			return fmt.Errorf("config: bucket %q needs at least 2 breakpoints", b.Column)
		}
		for i := 1; i < len(b.Breakpoints); i++ {
			if b.Breakpoints[i] <= b.Breakpoints[i-1] {
				return fmt.Errorf("config: bucket %q breakpoints must be strictly increasing", b.Column)
			}
		}
	}
	return nil
}
