package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoEntry struct {
	Name  string `json:"name"`
	Stars int    `json:"stars"`
}

type repoDoc struct {
	Entries map[string]repoEntry `json:"entries"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.json")
	s := New[repoDoc](path, 3)

	want := repoDoc{Entries: map[string]repoEntry{
		"openai/codex":          {Name: "codex", Stars: 12345},
		"anthropics/claude-cli": {Name: "claude-cli", Stars: 6789},
	}}
	require.NoError(t, s.Save(want))

	got, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestSavedFileCarriesTopLevelVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.json")
	s := New[repoDoc](path, 3)
	require.NoError(t, s.Save(repoDoc{Entries: map[string]repoEntry{}}))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(blob, &raw))
	assert.JSONEq(t, "3", string(raw["version"]))
	assert.Contains(t, raw, "entries")
}

func TestLoadMissingFile(t *testing.T) {
	s := New[repoDoc](filepath.Join(t.TempDir(), "absent.json"), 1)
	got, ok := s.Load()
	assert.False(t, ok)
	assert.Nil(t, got.Entries)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 1, "entries": {`), 0o600))

	s := New[repoDoc](path, 1)
	_, ok := s.Load()
	assert.False(t, ok)
}

func TestVersionMismatchDiscardsWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.json")

	old := New[repoDoc](path, 1)
	require.NoError(t, old.Save(repoDoc{Entries: map[string]repoEntry{
		"openai/codex": {Name: "codex", Stars: 1},
	}}))

	// Same file read with a newer expected version: content is valid JSON but
	// must be treated as absent, with no stale entry visible.
	cur := New[repoDoc](path, 2)
	got, ok := cur.Load()
	assert.False(t, ok)
	assert.Len(t, got.Entries, 0)
	_, stale := got.Entries["openai/codex"]
	assert.False(t, stale)
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.json")
	s := New[repoDoc](path, 1)
	require.NoError(t, s.Save(repoDoc{}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s := New[repoDoc](filepath.Join(dir, "cache.json"), 1)
	require.NoError(t, s.Save(repoDoc{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cache.json", entries[0].Name())
}
