// Package config defines the agentdeck runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tunables for the sync subsystem. It is built once in main
// and passed down explicitly; nothing reads it ambiently.
type Config struct {
	// GitHubAPIBase is the base URL for repository metadata requests.
	GitHubAPIBase string `yaml:"github_api_base"`
	// BenchmarksURL is the CDN endpoint serving the benchmark snapshot.
	BenchmarksURL string `yaml:"benchmarks_url"`
	// CacheDir is where the disk caches and preferences live.
	CacheDir string `yaml:"cache_dir"`

	// GitHubMemoryTTL bounds how long an in-process repo fetch is reused.
	GitHubMemoryTTL time.Duration `yaml:"github_memory_ttl"`
	// BenchmarkTTL is the absolute freshness window for the benchmark cache.
	BenchmarkTTL time.Duration `yaml:"benchmark_ttl"`
	// ProbeTimeout bounds a single version probe invocation.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	// FetchTimeout bounds a single HTTP request.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// ProbeConcurrency caps how many version probes run at once.
	ProbeConcurrency int `yaml:"probe_concurrency"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		GitHubAPIBase:    "https://api.github.com",
		BenchmarksURL:    "https://cdn.llmbench.dev/snapshot/latest.json",
		CacheDir:         defaultCacheDir(),
		GitHubMemoryTTL:  time.Hour,
		BenchmarkTTL:     6 * time.Hour,
		ProbeTimeout:     10 * time.Second,
		FetchTimeout:     15 * time.Second,
		ProbeConcurrency: 8,
	}
}

// Load returns Default overlaid with the user's config file, if one exists.
// A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = filepath.Join(configDir(), "config.yaml")
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(blob, cfg); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fileConfig mirrors Config with durations as strings, which is what yaml
// gives us for values like "6h".
type fileConfig struct {
	GitHubAPIBase    string `yaml:"github_api_base"`
	BenchmarksURL    string `yaml:"benchmarks_url"`
	CacheDir         string `yaml:"cache_dir"`
	GitHubMemoryTTL  string `yaml:"github_memory_ttl"`
	BenchmarkTTL     string `yaml:"benchmark_ttl"`
	ProbeTimeout     string `yaml:"probe_timeout"`
	FetchTimeout     string `yaml:"fetch_timeout"`
	ProbeConcurrency int    `yaml:"probe_concurrency"`
}

// UnmarshalYAML decodes duration fields from their human-readable form.
// Fields absent from the file leave the existing value in place.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var f fileConfig
	if err := value.Decode(&f); err != nil {
		return err
	}
	if f.GitHubAPIBase != "" {
		c.GitHubAPIBase = f.GitHubAPIBase
	}
	if f.BenchmarksURL != "" {
		c.BenchmarksURL = f.BenchmarksURL
	}
	if f.CacheDir != "" {
		c.CacheDir = f.CacheDir
	}
	if f.ProbeConcurrency > 0 {
		c.ProbeConcurrency = f.ProbeConcurrency
	}
	for _, d := range []struct {
		raw string
		dst *time.Duration
	}{
		{f.GitHubMemoryTTL, &c.GitHubMemoryTTL},
		{f.BenchmarkTTL, &c.BenchmarkTTL},
		{f.ProbeTimeout, &c.ProbeTimeout},
		{f.FetchTimeout, &c.FetchTimeout},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config: bad duration %q: %w", d.raw, err)
		}
		*d.dst = parsed
	}
	return nil
}

// fillDefaults restores zero-valued fields so a sparse override file cannot
// disable a timeout entirely.
func (c *Config) fillDefaults() {
	d := Default()
	if c.GitHubAPIBase == "" {
		c.GitHubAPIBase = d.GitHubAPIBase
	}
	if c.BenchmarksURL == "" {
		c.BenchmarksURL = d.BenchmarksURL
	}
	if c.CacheDir == "" {
		c.CacheDir = d.CacheDir
	}
	if c.GitHubMemoryTTL <= 0 {
		c.GitHubMemoryTTL = d.GitHubMemoryTTL
	}
	if c.BenchmarkTTL <= 0 {
		c.BenchmarkTTL = d.BenchmarkTTL
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = d.ProbeTimeout
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	if c.ProbeConcurrency <= 0 {
		c.ProbeConcurrency = d.ProbeConcurrency
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agentdeck"
	}
	return filepath.Join(home, ".config", "agentdeck")
}

func defaultCacheDir() string {
	return configDir()
}
