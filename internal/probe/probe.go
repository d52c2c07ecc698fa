// Package probe detects installed agent CLI tools by invoking them with their
// version flag and extracting a semantic version from the output.
package probe

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// versionToken matches a dotted numeric version with at least three
// components. Trailing non-numeric suffixes ("-beta", "+build") are ignored
// by virtue of not being part of the match.
var versionToken = regexp.MustCompile(`\d+\.\d+\.\d+(?:\.\d+)*`)

// Spec describes one binary to probe.
type Spec struct {
	ToolID      string
	Bin         string
	VersionArgs []string
	// Pattern optionally overrides the default version extraction. When set,
	// the first capture group (or the whole match) is used.
	Pattern string
}

// Result is the outcome of one probe. A missing binary is an expected
// negative, not an error: Installed is false and Err is nil.
type Result struct {
	ToolID    string
	Installed bool
	Version   string
	Path      string
	Err       error
}

// Run probes a single binary. The context bounds execution time so an
// unresponsive binary cannot stay in flight forever.
func Run(ctx context.Context, spec Spec) Result {
	res := Result{ToolID: spec.ToolID}

	if _, err := exec.LookPath(spec.Bin); err != nil {
		return res // not installed
	}

	cmd := exec.CommandContext(ctx, spec.Bin, spec.VersionArgs...)
	out, err := cmd.CombinedOutput()
	if err != nil && len(out) == 0 {
		if ctx.Err() != nil {
			res.Err = ctx.Err()
			return res
		}
		res.Err = err
		return res
	}

	version := extractVersion(string(out), spec.Pattern)
	if version == "" {
		return res // binary present but no parseable version
	}
	res.Installed = true
	res.Version = version

	// Resolve the absolute path only once we know the probe succeeded; the
	// lookup is redundant when the binary is absent.
	if path, err := exec.LookPath(spec.Bin); err == nil {
		res.Path = path
	}
	return res
}

// extractVersion scans output line by line and returns the first version
// token found. Tools print banners, update notices, and warnings around the
// version, so the whole combined output is fair game.
func extractVersion(out, pattern string) string {
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err == nil {
			for _, line := range strings.Split(out, "\n") {
				if m := re.FindStringSubmatch(line); m != nil {
					if len(m) > 1 {
						return m[1]
					}
					return m[0]
				}
			}
		}
		return ""
	}
	for _, line := range strings.Split(out, "\n") {
		if m := versionToken.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

// Runner fans probes out over a bounded worker pool and delivers results on a
// single channel. One probe per tool, no ordering guarantee among
// completions.
type Runner struct {
	timeout time.Duration
	workers int
}

// NewRunner returns a runner that allows at most workers concurrent probes,
// each bounded by timeout.
func NewRunner(workers int, timeout time.Duration) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{timeout: timeout, workers: workers}
}

// Start launches all probes and returns the results channel. The channel is
// closed once every probe has completed or the context is cancelled. Results
// may arrive in any order.
func (r *Runner) Start(ctx context.Context, specs []Spec) <-chan Result {
	results := make(chan Result, len(specs))
	sem := make(chan struct{}, r.workers)

	go func() {
		defer close(results)
		done := make(chan struct{}, len(specs))
		for _, spec := range specs {
			spec := spec
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				done <- struct{}{}
				continue
			}
			go func() {
				defer func() { <-sem; done <- struct{}{} }()
				pctx, cancel := context.WithTimeout(ctx, r.timeout)
				defer cancel()
				results <- Run(pctx, spec)
			}()
		}
		for range specs {
			<-done
		}
	}()

	return results
}
