package reconcile

import (
	"github.com/fentz26/agentdeck/internal/benchmarks"
	"github.com/fentz26/agentdeck/internal/github"
	"github.com/fentz26/agentdeck/internal/probe"
)

// Event is an asynchronous completion delivered to the store. Events arrive
// in any order across items; the merge is keyed by item id and commutative.
type Event interface{ isEvent() }

// VersionDetected carries a finished probe.
type VersionDetected struct {
	ID     string
	Result probe.Result
}

// MetadataReceived carries a successful repo fetch.
type MetadataReceived struct {
	ID       string
	Metadata github.RepoMetadata
}

// MetadataFailed carries a failed repo fetch with a short display reason.
type MetadataFailed struct {
	ID     string
	Reason string
}

// BenchmarksReceived replaces the benchmark snapshot.
type BenchmarksReceived struct {
	Entries []benchmarks.Record
}

// BenchmarksFailed reports a failed benchmark refresh; the last good snapshot
// is retained.
type BenchmarksFailed struct {
	Reason string
}

func (VersionDetected) isEvent()    {}
func (MetadataReceived) isEvent()   {}
func (MetadataFailed) isEvent()     {}
func (BenchmarksReceived) isEvent() {}
func (BenchmarksFailed) isEvent()   {}
