package benchmarks

import (
	"time"

	"github.com/fentz26/agentdeck/internal/cache"
)

const (
	// cacheVersion guards the cache container format.
	cacheVersion = 1
	// schemaVersion independently guards the shape of the cached records.
	// Either mismatch discards the whole file.
	schemaVersion = 2
)

type cacheDoc struct {
	SchemaVersion int      `json:"schema_version"`
	Entries       []Record `json:"entries"`
	ETag          string   `json:"etag,omitempty"`
	FetchedAt     int64    `json:"fetched_at"`
}

// Cache is the disk-backed benchmark store. Freshness is absolute elapsed
// time since fetched_at against a fixed TTL; the CDN has no conditional
// request support, so there is nothing cheaper to revalidate with.
type Cache struct {
	store *cache.Store[cacheDoc]
	ttl   time.Duration
	now   func() time.Time
}

// NewCache returns a cache at path with the given TTL.
func NewCache(path string, ttl time.Duration) *Cache {
	return &Cache{
		store: cache.New[cacheDoc](path, cacheVersion),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Load returns the cached entries. ok is false when the file is missing,
// malformed, or behind on either version counter. fresh reports whether the
// entries are within the TTL; stale entries are still returned so the UI has
// something to show while a refresh runs.
func (c *Cache) Load() (entries []Record, fresh, ok bool) {
	doc, ok := c.store.Load()
	if !ok || doc.SchemaVersion != schemaVersion {
		return nil, false, false
	}
	age := c.now().Sub(time.Unix(doc.FetchedAt, 0))
	return doc.Entries, age <= c.ttl, true
}

// Save replaces the cached snapshot, stamping the current time.
func (c *Cache) Save(entries []Record) error {
	return c.store.Save(cacheDoc{
		SchemaVersion: schemaVersion,
		Entries:       entries,
		FetchedAt:     c.now().Unix(),
	})
}
