package probe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"bare semver", "1.2.3\n", "1.2.3"},
		{"v prefix", "v0.45.1\n", "0.45.1"},
		{"banner line", "aider 0.82.2 (python 3.12)\n", "0.82.2"},
		{"version on second line", "warning: update available\ncodex-cli 0.4.0\n", "0.4.0"},
		{"prerelease suffix ignored", "2.1.0-beta.3\n", "2.1.0"},
		{"four components", "1.2.3.4\n", "1.2.3.4"},
		{"two components only", "version 1.2\n", ""},
		{"no version at all", "usage: tool [options]\n", ""},
		{"empty output", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractVersion(tt.out, ""); got != tt.want {
				t.Errorf("extractVersion(%q) = %q, want %q", tt.out, got, tt.want)
			}
		})
	}
}

func TestExtractVersionPattern(t *testing.T) {
	out := "release: 1.2.3 build: 9.9.9\n"
	got := extractVersion(out, `build: (\d+\.\d+\.\d+)`)
	if got != "9.9.9" {
		t.Errorf("pattern extraction = %q, want 9.9.9", got)
	}
}

func TestRunNotInstalled(t *testing.T) {
	res := Run(context.Background(), Spec{
		ToolID:      "ghost",
		Bin:         "agentdeck-no-such-binary-xyz",
		VersionArgs: []string{"--version"},
	})
	if res.Installed {
		t.Error("expected Installed=false for missing binary")
	}
	if res.Err != nil {
		t.Errorf("missing binary is an expected negative, got error: %v", res.Err)
	}
	if res.Version != "" || res.Path != "" {
		t.Errorf("expected empty version and path, got %q %q", res.Version, res.Path)
	}
}

func TestRunFakeBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture is unix-only")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "faketool")
	script := "#!/bin/sh\necho \"faketool version 3.14.1\"\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	res := Run(context.Background(), Spec{
		ToolID:      "faketool",
		Bin:         "faketool",
		VersionArgs: []string{"--version"},
	})
	if !res.Installed {
		t.Fatalf("expected Installed=true, err=%v", res.Err)
	}
	if res.Version != "3.14.1" {
		t.Errorf("expected version 3.14.1, got %q", res.Version)
	}
	if res.Path != bin {
		t.Errorf("expected resolved path %q, got %q", bin, res.Path)
	}
}

func TestRunVersionOnStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture is unix-only")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "stderrtool")
	script := "#!/bin/sh\necho \"stderrtool 2.0.5\" >&2\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	res := Run(context.Background(), Spec{ToolID: "stderrtool", Bin: "stderrtool", VersionArgs: []string{"--version"}})
	if !res.Installed || res.Version != "2.0.5" {
		t.Errorf("expected stderr output to be scanned, got installed=%v version=%q", res.Installed, res.Version)
	}
}

func TestRunnerCollectsAllResults(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture is unix-only")
	}

	dir := t.TempDir()
	for _, name := range []string{"tool-a", "tool-b"} {
		script := "#!/bin/sh\necho \"" + name + " 1.0.0\"\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	specs := []Spec{
		{ToolID: "tool-a", Bin: "tool-a", VersionArgs: []string{"--version"}},
		{ToolID: "tool-b", Bin: "tool-b", VersionArgs: []string{"--version"}},
		{ToolID: "ghost", Bin: "agentdeck-no-such-binary-xyz", VersionArgs: []string{"--version"}},
	}

	runner := NewRunner(2, 5*time.Second)
	got := map[string]Result{}
	for res := range runner.Start(context.Background(), specs) {
		got[res.ToolID] = res
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if !got["tool-a"].Installed || !got["tool-b"].Installed {
		t.Error("expected tool-a and tool-b to be detected")
	}
	if got["ghost"].Installed {
		t.Error("expected ghost to be not installed")
	}
}
