package track

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "prefs.toml"))
	require.NoError(t, err)
	assert.Equal(t, PrefsVersion, p.Version)
	assert.Empty(t, p.Excluded)
	assert.True(t, p.IsTracked("claude-code"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")

	var p Prefs
	p.SetTracked("aider", false)
	p.AddCustom(CustomTool{ID: "mytool", Name: "My Tool", Bin: "mytool", VersionArgs: []string{"-v"}})
	require.NoError(t, Save(path, p))

	got, err := Load(path)
	require.NoError(t, err)
	assert.False(t, got.IsTracked("aider"))
	assert.True(t, got.IsTracked("claude-code"))
	require.Len(t, got.Custom, 1)
	assert.Equal(t, "mytool", got.Custom[0].ID)
}

func TestSetTrackedToggles(t *testing.T) {
	var p Prefs
	p.SetTracked("aider", false)
	assert.False(t, p.IsTracked("aider"))

	p.SetTracked("aider", true)
	assert.True(t, p.IsTracked("aider"))
	assert.NotContains(t, p.Excluded, "aider")
}

func TestAddCustomAssignsID(t *testing.T) {
	var p Prefs
	id := p.AddCustom(CustomTool{Name: "Anon", Bin: "anon", VersionArgs: []string{"--version"}})
	assert.NotEmpty(t, id)
	assert.Contains(t, id, "custom-")

	// Re-adding with the same id replaces rather than duplicates.
	p.AddCustom(CustomTool{ID: id, Name: "Anon 2", Bin: "anon", VersionArgs: []string{"--version"}})
	require.Len(t, p.Custom, 1)
	assert.Equal(t, "Anon 2", p.Custom[0].Name)
}

func TestLoadVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 99\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte("tracked = [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
