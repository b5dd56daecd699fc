// Package config loads areasearch settings from ~/.areasearch/config.yaml,
// applies environment overrides and exposes them process-wide.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for a fresh configuration.
const (
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "json"
	DefaultMinRefreshInterval  = 250 * time.Millisecond
	DefaultAutoRefreshInterval = time.Second
	DefaultFilterMinLength     = 3
	DefaultSimulatorLatency    = 50 * time.Millisecond
	configFileName             = "config.yaml"
	outputTypeFile             = "file"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration is a time.Duration that reads and writes as "250ms" in YAML.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Config is the full areasearch configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Search    SearchConfig    `yaml:"search"`
	Simulator SimulatorConfig `yaml:"simulator"`

	path string
}

// LoggingConfig controls log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// SearchConfig tunes the search session.
type SearchConfig struct {
	MinRefreshInterval  Duration `yaml:"min_refresh_interval"`
	FilterMinLength     int      `yaml:"filter_min_length"`
	AutoRefreshInterval Duration `yaml:"auto_refresh_interval"`
}

// SimulatorConfig tunes the scene simulator.
type SimulatorConfig struct {
	Latency Duration `yaml:"latency"`
}

// New returns a Config holding defaults, with the file path under the
// config directory. Nothing is read from disk.
func New() *Config {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Search: SearchConfig{
			MinRefreshInterval:  Duration(DefaultMinRefreshInterval),
			FilterMinLength:     DefaultFilterMinLength,
			AutoRefreshInterval: Duration(DefaultAutoRefreshInterval),
		},
		Simulator: SimulatorConfig{
			Latency: Duration(DefaultSimulatorLatency),
		},
	}
	if dir, err := GetConfigDir(); err == nil {
		cfg.path = filepath.Join(dir, configFileName)
	}
	return cfg
}

// DefaultLogFile is where interactive sessions log when no file is
// configured.
func DefaultLogFile() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "areasearch.log"), nil
}

// Load builds a Config from defaults, the YAML file at path (or the default
// location when path is empty) and environment overrides. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := New()
	if path != "" {
		cfg.path = path
	}

	if cfg.path != "" {
		err := ShallowMergeYAML(cfg, cfg.path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path is the file the config was loaded from or will be saved to.
func (c *Config) Path() string { return c.path }

// SetPath changes where Save writes.
func (c *Config) SetPath(path string) { c.path = path }

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Search.FilterMinLength < 1 {
		return fmt.Errorf("%w: search.filter_min_length must be at least 1, got %d",
			ErrInvalidConfig, c.Search.FilterMinLength)
	}
	durations := map[string]Duration{
		"search.min_refresh_interval":  c.Search.MinRefreshInterval,
		"search.auto_refresh_interval": c.Search.AutoRefreshInterval,
		"simulator.latency":            c.Simulator.Latency,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidConfig, name, d.Std())
		}
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logging.format must be json or console, got %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// Save writes the config as YAML to its path.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no file path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.path, err)
	}
	return nil
}
