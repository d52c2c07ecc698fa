// Package cache provides a versioned JSON document store on local disk. It is
// the foundation for the repo metadata and benchmark caches.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Store reads and writes one cache file. The file is a flat JSON object
// carrying a top-level "version" integer alongside the document's own fields.
// The version guards the whole file: a stored version that differs from the
// expected one discards the entire document on load. There is deliberately no
// field-level migration.
//
// A Store is owned exclusively by a single sync client; nothing else touches
// the file.
type Store[T any] struct {
	path    string
	version int
}

// New returns a store for the given file path and expected format version.
func New[T any](path string, version int) *Store[T] {
	return &Store[T]{path: path, version: version}
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// Load reads the cache from disk. It never fails the caller: a missing file,
// unreadable file, malformed JSON, or version mismatch all yield the zero
// value and ok=false.
func (s *Store[T]) Load() (T, bool) {
	var zero T
	blob, err := os.ReadFile(s.path)
	if err != nil {
		return zero, false
	}
	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(blob, &header); err != nil {
		return zero, false
	}
	if header.Version != s.version {
		return zero, false
	}
	var doc T
	if err := json.Unmarshal(blob, &doc); err != nil {
		return zero, false
	}
	return doc, true
}

// Save writes the cache atomically: marshal with the store's version stamped
// in, write to a sibling temp file, rename over the target. The directory is
// created on first save. A reader that races an interrupted save sees either
// the old file or nothing, never a half-written one.
func (s *Store[T]) Save(doc T) error {
	blob, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(blob, &fields); err != nil {
		return err
	}
	version, err := json.Marshal(s.version)
	if err != nil {
		return err
	}
	fields["version"] = version
	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp := filepath.Join(dir, "."+filepath.Base(s.path)+".tmp")
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
