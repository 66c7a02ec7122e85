// Package config loads the pipeline settings from YAML.
package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/survivalml/pkg/errors"
	"github.com/YuminosukeSato/survivalml/pkg/log"
)

// Environment variables that override the file.
const (
	EnvDataPath = "SURVIVAL_DATA_PATH"
	EnvLogLevel = "SURVIVAL_LOG_LEVEL"
)

// Config is the full pipeline configuration.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Split    SplitConfig    `yaml:"split"`
	Logistic LogisticConfig `yaml:"logistic"`
	Forest   ForestConfig   `yaml:"forest"`
	Log      LogConfig      `yaml:"log"`
	Report   ReportConfig   `yaml:"report"`
}

type DataConfig struct {
	Path string `yaml:"path"`
}

type SplitConfig struct {
	TestRatio float64 `yaml:"test_ratio"`
	Shuffle   bool    `yaml:"shuffle"`
	Seed      int64   `yaml:"seed"`
}

type LogisticConfig struct {
	LearningRate float64 `yaml:"learning_rate"`
	Epochs       int     `yaml:"epochs"`
	// Standardize scales features to zero mean and unit variance before
	// training. Off by default, which trains on the raw values.
	Standardize bool `yaml:"standardize"`
}

type ForestConfig struct {
	NTrees      int   `yaml:"n_trees"`
	Bootstrap   bool  `yaml:"bootstrap"`
	MaxFeatures int   `yaml:"max_features"`
	Seed        int64 `yaml:"seed"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// ReportConfig points at a directory for charts. Empty disables the report.
type ReportConfig struct {
	Path string `yaml:"path"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Data:     DataConfig{Path: "titanic.csv"},
		Split:    SplitConfig{TestRatio: 0.2},
		Logistic: LogisticConfig{LearningRate: 0.01, Epochs: 1000},
		Forest:   ForestConfig{NTrees: 10},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}

	cfg.Data.Path = getEnvOrDefault(EnvDataPath, cfg.Data.Path)
	cfg.Log.Level = getEnvOrDefault(EnvLogLevel, cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate checks every field and returns the first ValidationError.
func (c Config) Validate() error {
	if c.Data.Path == "" {
		return errors.NewValidationError("data.path", "must not be empty", c.Data.Path)
	}
	if math.IsNaN(c.Split.TestRatio) || c.Split.TestRatio < 0 || c.Split.TestRatio > 1 {
		return errors.NewValidationError("split.test_ratio", "must be in [0, 1]", c.Split.TestRatio)
	}
	if math.IsNaN(c.Logistic.LearningRate) || c.Logistic.LearningRate <= 0 || math.IsInf(c.Logistic.LearningRate, 0) {
		return errors.NewValidationError("logistic.learning_rate", "must be positive", c.Logistic.LearningRate)
	}
	if c.Logistic.Epochs < 0 {
		return errors.NewValidationError("logistic.epochs", "must not be negative", c.Logistic.Epochs)
	}
	if c.Forest.NTrees < 0 {
		return errors.NewValidationError("forest.n_trees", "must not be negative", c.Forest.NTrees)
	}
	if c.Forest.MaxFeatures < 0 {
		return errors.NewValidationError("forest.max_features", "must not be negative", c.Forest.MaxFeatures)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Save writes the configuration as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
