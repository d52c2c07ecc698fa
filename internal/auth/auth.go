// Package auth manages the optional GitHub personal access token used to
// raise the API rate limit for metadata fetches.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Credentials stores the persisted token.
type Credentials struct {
	GitHubToken string `json:"github_token"`
	CreatedAt   int64  `json:"created_at"`
}

// Manager handles token storage. The GITHUB_TOKEN environment variable
// overrides the stored token so CI and one-off runs need no file.
type Manager struct {
	configDir   string
	credentials *Credentials
	mu          sync.RWMutex
}

// NewManager creates a manager rooted at configDir and loads any stored
// credentials.
func NewManager(configDir string) (*Manager, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	m := &Manager{configDir: configDir}
	_ = m.loadCredentials()
	return m, nil
}

// Token returns the effective token, preferring the environment.
func (m *Manager) Token() string {
	if env := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); env != "" {
		return env
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.credentials == nil {
		return ""
	}
	return m.credentials.GitHubToken
}

// HasToken reports whether any token is configured.
func (m *Manager) HasToken() bool {
	return m.Token() != ""
}

// SetToken stores a token on disk.
func (m *Manager) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("empty token")
	}
	m.mu.Lock()
	m.credentials = &Credentials{
		GitHubToken: token,
		CreatedAt:   time.Now().Unix(),
	}
	m.mu.Unlock()
	return m.saveCredentials()
}

// ClearToken removes the stored token. The environment override, if any, is
// unaffected.
func (m *Manager) ClearToken() error {
	m.mu.Lock()
	m.credentials = nil
	m.mu.Unlock()

	if err := os.Remove(m.credentialsPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

func (m *Manager) credentialsPath() string {
	return filepath.Join(m.configDir, "credentials.json")
}

func (m *Manager) loadCredentials() error {
	data, err := os.ReadFile(m.credentialsPath())
	if err != nil {
		return err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return err
	}
	m.mu.Lock()
	m.credentials = &creds
	m.mu.Unlock()
	return nil
}

func (m *Manager) saveCredentials() error {
	m.mu.RLock()
	creds := m.credentials
	m.mu.RUnlock()
	if creds == nil {
		return nil
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.credentialsPath(), data, 0600)
}
