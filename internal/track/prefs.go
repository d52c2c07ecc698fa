// Package track persists the user's tracking preferences: which agent tools
// are watched, which are excluded, and any custom tool definitions.
package track

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

// PrefsVersion guards the preferences file format.
const PrefsVersion = 1

// CustomTool is a user-defined tool to track alongside the built-in catalog.
type CustomTool struct {
	ID          string   `toml:"id"`
	Name        string   `toml:"name"`
	Bin         string   `toml:"bin"`
	VersionArgs []string `toml:"version_args"`
	Repo        string   `toml:"repo,omitempty"`
}

// Prefs is the persisted preference set. Built-in tools are tracked by
// default; Excluded turns one off, Tracked records an explicit re-enable.
type Prefs struct {
	Version  int          `toml:"version"`
	Tracked  []string     `toml:"tracked,omitempty"`
	Excluded []string     `toml:"excluded,omitempty"`
	Custom   []CustomTool `toml:"custom,omitempty"`
}

// Load reads preferences from path. A missing file yields empty defaults; a
// malformed or version-mismatched file is an error so the user's choices are
// never silently dropped.
func Load(path string) (Prefs, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Prefs{Version: PrefsVersion}, nil
		}
		return Prefs{}, err
	}
	var p Prefs
	if err := toml.Unmarshal(blob, &p); err != nil {
		return Prefs{}, fmt.Errorf("track: parse %s: %w", path, err)
	}
	if p.Version == 0 {
		p.Version = PrefsVersion
	}
	if p.Version != PrefsVersion {
		return Prefs{}, fmt.Errorf("track: unsupported prefs version %d", p.Version)
	}
	return p, nil
}

// Save writes preferences atomically via a sibling temp file.
func Save(path string, p Prefs) error {
	p.Version = PrefsVersion
	sort.Strings(p.Tracked)
	sort.Strings(p.Excluded)
	sort.Slice(p.Custom, func(i, j int) bool { return p.Custom[i].ID < p.Custom[j].ID })

	blob, err := toml.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// IsTracked reports whether a tool id is currently tracked. Built-ins are on
// unless excluded; custom tools are on unless excluded.
func (p *Prefs) IsTracked(id string) bool {
	return !contains(p.Excluded, id)
}

// SetTracked flips the tracking state for a tool id.
func (p *Prefs) SetTracked(id string, on bool) {
	if on {
		p.Excluded = remove(p.Excluded, id)
		if !contains(p.Tracked, id) {
			p.Tracked = append(p.Tracked, id)
		}
		return
	}
	p.Tracked = remove(p.Tracked, id)
	if !contains(p.Excluded, id) {
		p.Excluded = append(p.Excluded, id)
	}
}

// AddCustom registers a custom tool, assigning an id if the caller left it
// empty. Returns the id.
func (p *Prefs) AddCustom(tool CustomTool) string {
	if tool.ID == "" {
		tool.ID = "custom-" + uuid.NewString()[:8]
	}
	for i := range p.Custom {
		if p.Custom[i].ID == tool.ID {
			p.Custom[i] = tool
			return tool.ID
		}
	}
	p.Custom = append(p.Custom, tool)
	return tool.ID
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func remove(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
