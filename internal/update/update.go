// Package update checks GitHub for newer agentdeck releases and can replace
// the running binary in place.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	// Repo is the repository checked for new releases.
	Repo = "fentz26/agentdeck"
	// CheckInterval is the minimum time between automatic checks.
	CheckInterval = 24 * time.Hour
)

type release struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url"`
	Assets  []asset `json:"assets"`
}

type asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// checkCache records the last check so startup stays quiet between intervals.
type checkCache struct {
	LastCheck     int64  `json:"last_check"`
	LatestVersion string `json:"latest_version"`
	DownloadURL   string `json:"download_url"`
}

// Checker looks up the latest release and remembers the answer on disk.
type Checker struct {
	apiBase   string
	configDir string
	version   string
	http      *http.Client
	cache     *checkCache
}

// NewChecker creates a checker. version is the running build's version string.
func NewChecker(apiBase, configDir, version string) (*Checker, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	c := &Checker{
		apiBase:   strings.TrimRight(apiBase, "/"),
		configDir: configDir,
		version:   version,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	_ = c.loadCache()
	return c, nil
}

// ShouldCheck reports whether the check interval has elapsed.
func (c *Checker) ShouldCheck() bool {
	if c.cache == nil {
		return true
	}
	return time.Since(time.Unix(c.cache.LastCheck, 0)) > CheckInterval
}

// Check queries GitHub for the newest release. It returns whether a newer
// version exists and what it is. A "dev" build never reports an update.
func (c *Checker) Check(ctx context.Context) (bool, string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.apiBase, Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "agentdeck")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, "", fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, "", fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return false, "", fmt.Errorf("failed to parse release info: %w", err)
	}

	latest := strings.TrimPrefix(rel.TagName, "v")
	c.cache = &checkCache{
		LastCheck:     time.Now().Unix(),
		LatestVersion: latest,
		DownloadURL:   findAssetURL(rel.Assets),
	}
	_ = c.saveCache()

	return newerThan(latest, c.version), latest, nil
}

// CachedVersion returns the last known latest version, if any.
func (c *Checker) CachedVersion() (string, bool) {
	if c.cache == nil || c.cache.LatestVersion == "" {
		return "", false
	}
	return c.cache.LatestVersion, true
}

// Install downloads the latest release asset for this OS/arch and swaps it in
// for the running binary, keeping a backup until the copy succeeds.
func (c *Checker) Install(ctx context.Context) error {
	if c.cache == nil || c.cache.DownloadURL == "" {
		if _, _, err := c.Check(ctx); err != nil {
			return err
		}
	}
	url := c.cache.DownloadURL
	if url == "" {
		return fmt.Errorf("no release asset for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp("", "agentdeck-update-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	_, err = io.Copy(tmpFile, resp.Body)
	tmpFile.Close()
	if err != nil {
		return fmt.Errorf("failed to download binary: %w", err)
	}
	if err := os.Chmod(tmpPath, 0755); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	currentBin, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get current executable: %w", err)
	}
	currentBin, _ = filepath.EvalSymlinks(currentBin)

	// A running binary often cannot be overwritten directly; rename it aside
	// first and restore on failure.
	backupPath := currentBin + ".old"
	os.Remove(backupPath)
	if err := os.Rename(currentBin, backupPath); err != nil {
		return fmt.Errorf("failed to backup current binary: %w", err)
	}
	if err := copyFile(tmpPath, currentBin); err != nil {
		os.Rename(backupPath, currentBin)
		return fmt.Errorf("failed to install new binary: %w", err)
	}
	os.Remove(backupPath)
	return nil
}

// newerThan reports whether latest is a strictly newer semver than current.
func newerThan(latest, current string) bool {
	if current == "dev" || latest == "" {
		return false
	}
	lv, cv := "v"+strings.TrimPrefix(latest, "v"), "v"+strings.TrimPrefix(current, "v")
	if !semver.IsValid(lv) || !semver.IsValid(cv) {
		return latest != current
	}
	return semver.Compare(lv, cv) > 0
}

func (c *Checker) cachePath() string {
	return filepath.Join(c.configDir, "update_cache.json")
}

func (c *Checker) loadCache() error {
	data, err := os.ReadFile(c.cachePath())
	if err != nil {
		return err
	}
	var cache checkCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return err
	}
	c.cache = &cache
	return nil
}

func (c *Checker) saveCache() error {
	if c.cache == nil {
		return nil
	}
	data, err := json.MarshalIndent(c.cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.cachePath(), data, 0600)
}

// findAssetURL picks the release asset matching this OS and architecture.
func findAssetURL(assets []asset) string {
	goos := runtime.GOOS
	arch := runtime.GOARCH

	archAliases := map[string][]string{
		"amd64": {"amd64", "x86_64", "x64"},
		"arm64": {"arm64", "aarch64"},
		"386":   {"386", "i386", "x86"},
	}
	aliases, ok := archAliases[arch]
	if !ok {
		aliases = []string{arch}
	}

	for _, a := range assets {
		name := strings.ToLower(a.Name)
		if !strings.Contains(name, goos) {
			continue
		}
		for _, alias := range aliases {
			if strings.Contains(name, alias) {
				return a.BrowserDownloadURL
			}
		}
	}
	return ""
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, info.Mode())
}
