package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	d := Default()
	if cfg.GitHubAPIBase != d.GitHubAPIBase || cfg.BenchmarkTTL != d.BenchmarkTTL {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	blob := []byte("github_api_base: http://localhost:9999\nprobe_timeout: 3s\n")
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GitHubAPIBase != "http://localhost:9999" {
		t.Errorf("GitHubAPIBase = %q", cfg.GitHubAPIBase)
	}
	if cfg.ProbeTimeout != 3*time.Second {
		t.Errorf("ProbeTimeout = %v", cfg.ProbeTimeout)
	}
	// Fields the file omits keep their defaults.
	if cfg.BenchmarkTTL != 6*time.Hour {
		t.Errorf("BenchmarkTTL = %v", cfg.BenchmarkTTL)
	}
	if cfg.ProbeConcurrency != 8 {
		t.Errorf("ProbeConcurrency = %d", cfg.ProbeConcurrency)
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("github_api_base: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed config should fail")
	}
}
