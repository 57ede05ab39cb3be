// Package config loads the optional YAML configuration file. Every field
// has a working default so running without a config file is the common
// case.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"offliner/pkg/blocklist"
)

// Config is the full tool configuration.
type Config struct {
	Blocklist []string    `yaml:"blocklist"`
	Fetch     FetchConfig `yaml:"fetch"`
}

// FetchConfig tunes the HTTP client and retry policy.
type FetchConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff"`
	MaxBytes    int64         `yaml:"max_bytes"`
	UserAgent   string        `yaml:"user_agent"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.defaults()
	return c
}

// Load reads a YAML config file and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	c.defaults()
	return c, nil
}

// defaults fills zero-value fields in place.
func (c *Config) defaults() {
	if len(c.Blocklist) == 0 {
		c.Blocklist = blocklist.DefaultPatterns
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.MaxAttempts == 0 {
		c.Fetch.MaxAttempts = 3
	}
	if c.Fetch.Backoff == 0 {
		c.Fetch.Backoff = 500 * time.Millisecond
	}
	if c.Fetch.MaxBytes == 0 {
		c.Fetch.MaxBytes = 100 << 20 // 100 MiB per resource
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "offliner/1.0"
	}
}
