// Package reconcile owns the authoritative in-memory view of tracked tools.
// It merges asynchronous completions from the version probes and the GitHub
// sync client into per-item state, one event at a time.
package reconcile

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/fentz26/agentdeck/internal/benchmarks"
	"github.com/fentz26/agentdeck/internal/catalog"
	"github.com/fentz26/agentdeck/internal/github"
	"github.com/fentz26/agentdeck/internal/track"
)

// FetchStatus is the per-item async lifecycle marker.
type FetchStatus int

const (
	NotStarted FetchStatus = iota
	Loading
	Loaded
	Failed
)

func (s FetchStatus) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// FetchState pairs the status with a failure reason so "failed" is never a
// bare flag.
type FetchState struct {
	Status FetchStatus
	Reason string
}

// Item is one tracked tool: static descriptor plus whatever live data has
// arrived so far. The descriptor is always present; probe and fetch results
// fill in independently.
type Item struct {
	ID      string
	Tool    catalog.Tool
	Tracked bool

	// Probe results.
	ProbeDone bool
	Installed bool
	Version   string
	Path      string
	ProbeErr  string

	// Fetch results. Metadata is nil until a fetch succeeds.
	Metadata *github.RepoMetadata
	Fetch    FetchState

	// UpdateAvailable is derived once both the installed version and the
	// latest release are known.
	UpdateAvailable bool
}

// SortKey selects the ordering of the visible list.
type SortKey int

const (
	SortByName SortKey = iota
	SortByStars
	SortByRelease
)

// Store is the reactive view model. It is driven from a single goroutine
// (the UI loop applies events one at a time); Apply never blocks.
type Store struct {
	items map[string]*Item
	order []string

	// pending counts outstanding network fetches. Zero means the initial
	// sync is done; this flag gates only display, never interaction.
	pending int

	benchmarks  []benchmarks.Record
	benchStatus string

	sortKey SortKey
}

// New builds the item list from the static catalog plus preferences. Custom
// tools from the preferences are appended after the built-ins. Every item
// starts NotStarted.
func New(tools []catalog.Tool, prefs *track.Prefs) *Store {
	s := &Store{items: map[string]*Item{}, sortKey: SortByName}
	for _, tool := range tools {
		s.add(tool, prefs.IsTracked(tool.ID))
	}
	for _, c := range prefs.Custom {
		s.add(catalog.Tool{
			ID:          c.ID,
			Name:        c.Name,
			Bin:         c.Bin,
			VersionArgs: c.VersionArgs,
			Repo:        c.Repo,
		}, prefs.IsTracked(c.ID))
	}
	s.resort()
	return s
}

func (s *Store) add(tool catalog.Tool, tracked bool) {
	if _, exists := s.items[tool.ID]; exists {
		return
	}
	s.items[tool.ID] = &Item{ID: tool.ID, Tool: tool, Tracked: tracked}
	s.order = append(s.order, tool.ID)
}

// Begin flips every tracked item to Loading and returns them so the caller
// can schedule one probe and one fetch apiece. Untracked items are never
// scheduled, and items whose fetch is already in flight are skipped so each
// item has at most one outstanding fetch.
func (s *Store) Begin() []*Item {
	var started []*Item
	for _, id := range s.order {
		item := s.items[id]
		if !item.Tracked {
			continue
		}
		// An item still Loading belongs to an earlier cycle that has not
		// finished; starting it again would leak the pending count and put a
		// second fetch in flight.
		if item.Fetch.Status == Loading {
			continue
		}
		// Only repo-bearing items have a fetch lifecycle; the rest stay
		// NotStarted so they never read as stuck.
		if item.Tool.Repo != "" {
			item.Fetch = FetchState{Status: Loading}
			s.pending++
		}
		started = append(started, item)
	}
	return started
}

// SetTracked changes an item's tracking state. Tracking a previously
// untracked item resets it to Loading and reports needsSync=true: the caller
// must schedule exactly one probe and one fetch. Untracking never schedules
// anything, and re-tracking while the old fetch is still in flight reuses it
// instead of starting another.
func (s *Store) SetTracked(id string, on bool) (item *Item, needsSync bool) {
	item, ok := s.items[id]
	if !ok {
		return nil, false
	}
	if !on {
		item.Tracked = false
		return item, false
	}
	if item.Tracked {
		return item, false
	}
	item.Tracked = true
	// A fetch from before the untrack may still be in flight; its completion
	// will land normally, so scheduling another would double both the pending
	// count and the request.
	if item.Fetch.Status == Loading {
		return item, false
	}
	item.ProbeDone = false
	if item.Tool.Repo != "" {
		item.Fetch = FetchState{Status: Loading}
		s.pending++
	}
	return item, true
}

// Apply merges one completion event. O(1) lookup by id; only that item is
// mutated. Applying the same event twice is a no-op beyond the first.
func (s *Store) Apply(ev Event) {
	switch ev := ev.(type) {
	case VersionDetected:
		item, ok := s.items[ev.ID]
		if !ok {
			return
		}
		item.ProbeDone = true
		item.Installed = ev.Result.Installed
		item.Version = ev.Result.Version
		item.Path = ev.Result.Path
		if ev.Result.Err != nil {
			item.ProbeErr = ev.Result.Err.Error()
		} else {
			item.ProbeErr = ""
		}
		item.UpdateAvailable = updateAvailable(item)
		s.resort()

	case MetadataReceived:
		item, ok := s.items[ev.ID]
		if !ok {
			return
		}
		if item.Fetch.Status == Loading {
			s.pending--
		}
		meta := ev.Metadata
		item.Metadata = &meta
		item.Fetch = FetchState{Status: Loaded}
		item.UpdateAvailable = updateAvailable(item)
		s.resort()

	case MetadataFailed:
		item, ok := s.items[ev.ID]
		if !ok {
			return
		}
		if item.Fetch.Status == Loading {
			s.pending--
		}
		// The item keeps whatever data it already has; only the status and
		// reason change.
		item.Fetch = FetchState{Status: Failed, Reason: ev.Reason}

	case BenchmarksReceived:
		s.benchmarks = ev.Entries
		s.benchStatus = ""

	case BenchmarksFailed:
		// Last good snapshot is retained.
		s.benchStatus = ev.Reason
	}
}

// Loading reports whether any network fetch is still outstanding. Display
// only; the UI stays interactive regardless.
func (s *Store) Loading() bool {
	return s.pending > 0
}

// Pending returns the outstanding fetch count.
func (s *Store) Pending() int {
	return s.pending
}

// Items returns all items in the current sort order.
func (s *Store) Items() []*Item {
	out := make([]*Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Item returns one item by id.
func (s *Store) Item(id string) (*Item, bool) {
	item, ok := s.items[id]
	return item, ok
}

// Benchmarks returns the current snapshot and the last refresh failure
// reason, if any.
func (s *Store) Benchmarks() ([]benchmarks.Record, string) {
	return s.benchmarks, s.benchStatus
}

// SetSort changes the ordering and re-sorts immediately.
func (s *Store) SetSort(key SortKey) {
	s.sortKey = key
	s.resort()
}

// Sort returns the active sort key.
func (s *Store) Sort() SortKey {
	return s.sortKey
}

// resort re-runs the visible ordering. Called after every event that can
// change a sort-relevant field, not just on explicit sort changes.
func (s *Store) resort() {
	sort.SliceStable(s.order, func(i, j int) bool {
		a, b := s.items[s.order[i]], s.items[s.order[j]]
		switch s.sortKey {
		case SortByStars:
			as, bs := stars(a), stars(b)
			if as != bs {
				return as > bs
			}
		case SortByRelease:
			ar, br := releaseUnix(a), releaseUnix(b)
			if ar != br {
				return ar > br
			}
		}
		return a.Tool.Name < b.Tool.Name
	})
}

func stars(it *Item) int {
	if it.Metadata == nil || it.Metadata.Stars == nil {
		return -1
	}
	return *it.Metadata.Stars
}

func releaseUnix(it *Item) int64 {
	if it.Metadata == nil {
		return -1
	}
	rel, ok := it.Metadata.LatestRelease()
	if !ok {
		return -1
	}
	return rel.Date.Unix()
}

// updateAvailable compares the probed version against the latest release.
func updateAvailable(it *Item) bool {
	if !it.Installed || it.Version == "" || it.Metadata == nil {
		return false
	}
	rel, ok := it.Metadata.LatestRelease()
	if !ok || rel.Version == "" {
		return false
	}
	installed := "v" + strings.TrimPrefix(it.Version, "v")
	latest := "v" + strings.TrimPrefix(rel.Version, "v")
	if !semver.IsValid(installed) || !semver.IsValid(latest) {
		return false
	}
	return semver.Compare(installed, latest) < 0
}
