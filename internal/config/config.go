package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAlgorithm      = "bubble"
	DefaultSpeedMs        = 500
	DefaultWordsPerMinute = 180
	DefaultTheme          = "cyberpunk"
	DefaultDataDir        = ".sortviz"
	DefaultAddr           = ":8080"
)

type Config struct {
	Algorithm string          `yaml:"algorithm"`
	Input     string          `yaml:"input"`
	SpeedMs   int             `yaml:"speed_ms"`
	Narration NarrationConfig `yaml:"narration"`
	Theme     string          `yaml:"theme"`
	DataDir   string          `yaml:"data_dir"`
	Addr      string          `yaml:"addr"`
	LogLevel  string          `yaml:"log_level"`
}

type NarrationConfig struct {
	Enabled        bool `yaml:"enabled"`
	Await          bool `yaml:"await"`
	WordsPerMinute int  `yaml:"words_per_minute"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm: DefaultAlgorithm,
		SpeedMs:   DefaultSpeedMs,
		Narration: NarrationConfig{
			Await:          true,
			WordsPerMinute: DefaultWordsPerMinute,
		},
		Theme:    DefaultTheme,
		DataDir:  DefaultDataDir,
		Addr:     DefaultAddr,
		LogLevel: "info",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.SpeedMs <= 0 {
		return fmt.Errorf("speed_ms must be positive, got %d", c.SpeedMs)
	}
	if c.Narration.WordsPerMinute < 0 {
		return fmt.Errorf("narration.words_per_minute must not be negative, got %d", c.Narration.WordsPerMinute)
	}
	if c.Input != "" {
		if _, err := ParseArray(c.Input); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) Speed() time.Duration {
	return time.Duration(c.SpeedMs) * time.Millisecond
}

// Values parses the configured input.
func (c *Config) Values() ([]float64, error) {
	return ParseArray(c.Input)
}
