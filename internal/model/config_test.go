package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0.8, cfg.TrainFraction)
	assert.Equal(t, 5, cfg.CVFolds)
	assert.Equal(t, 100, cfg.MaxAge)
	assert.Equal(t, []int{2, 3, 5}, cfg.Forest.MtryGrid)
	require.Len(t, cfg.Buckets, 2)
	assert.Equal(t, []int{16, 21, 24, 29, 34, 39}, cfg.Buckets[0].Breakpoints)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 8}, cfg.Buckets[1].Breakpoints)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "inputPath: data/conversion.csv\nseed: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "data/conversion.csv", cfg.InputPath)
	assert.Equal(t, int64(7), cfg.Seed)
	// untouched values keep their defaults
	assert.Equal(t, 0.8, cfg.TrainFraction)
	assert.Equal(t, 100, cfg.Forest.Trees)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing input", func(c *Config) { c.InputPath = "" }},
		{"fraction too high", func(c *Config) { c.TrainFraction = 1.0 }},
		{"fraction zero", func(c *Config) { c.TrainFraction = 0 }},
		{"one fold", func(c *Config) { c.CVFolds = 1 }},
		{"no trees", func(c *Config) { c.Forest.Trees = 0 }},
		{"empty grid", func(c *Config) { c.Forest.MtryGrid = nil }},
		{"unknown bucket column", func(c *Config) {
			c.Buckets = []BucketSpec{{Column: "country", Breakpoints: []int{0, 1}}}
		}},
		{"unordered breakpoints", func(c *Config) {
			c.Buckets = []BucketSpec{{Column: ColumnAge, Breakpoints: []int{16, 16, 24}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.InputPath = "data.csv"
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputPath = "data.csv"
	assert.NoError(t, cfg.Validate())
}
