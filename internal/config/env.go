package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables that override file settings.
const (
	EnvHome                = "AREASEARCH_HOME"
	EnvLogLevel            = "AREASEARCH_LOG_LEVEL"
	EnvLogFormat           = "AREASEARCH_LOG_FORMAT"
	EnvLogFile             = "AREASEARCH_LOG_FILE"
	EnvMinRefreshInterval  = "AREASEARCH_MIN_REFRESH_INTERVAL"
	EnvAutoRefreshInterval = "AREASEARCH_AUTO_REFRESH_INTERVAL"
	EnvFilterMinLength     = "AREASEARCH_FILTER_MIN_LENGTH"
	EnvSimLatency          = "AREASEARCH_SIM_LATENCY"
)

// ApplyEnv overlays any set AREASEARCH_* variables onto c.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}

	durations := []struct {
		env string
		dst *Duration
	}{
		{EnvMinRefreshInterval, &c.Search.MinRefreshInterval},
		{EnvAutoRefreshInterval, &c.Search.AutoRefreshInterval},
		{EnvSimLatency, &c.Simulator.Latency},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, d.env, v, err)
		}
		*d.dst = Duration(parsed)
	}

	if v := os.Getenv(EnvFilterMinLength); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvFilterMinLength, v, err)
		}
		c.Search.FilterMinLength = n
	}
	return nil
}
