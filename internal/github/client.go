// Package github fetches repository metadata (stars, issues, license,
// releases) with two layers of caching: a short-TTL in-process cache for
// best-effort fresh reads, and a disk-backed ETag cache for cheap conditional
// revalidation across runs.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/fentz26/agentdeck/internal/cache"
)

const (
	// repoCacheVersion guards the whole disk cache file; bumping it discards
	// every stored entry on the next load.
	repoCacheVersion = 1

	memCacheSize = 128
	releasePages = 20
)

// errNotModified is internal to getJSON; FetchConditional translates it into
// a NotModified result.
var errNotModified = errors.New("github: not modified")

// Client fetches repository metadata. All remote interaction is read-only
// GET; a fetch either returns usable metadata (possibly partial) or an error,
// never a panic.
type Client struct {
	apiBase string
	token   string
	http    *http.Client

	mem   *expirable.LRU[string, RepoMetadata]
	group singleflight.Group

	// entries mirrors the disk cache; guarded for many readers, one writer.
	mu      sync.RWMutex
	entries map[string]cacheEntry
	disk    *cache.Store[repoCacheDoc]

	// saveErr records the first disk-save failure so the caller can surface
	// it once; later failures are dropped.
	saveErr error

	now func() time.Time
}

// New creates a client. cacheFile is the disk cache path; empty disables
// disk-backed revalidation (conditional fetches then behave as cold).
func New(apiBase, cacheFile string, memTTL, timeout time.Duration) *Client {
	c := &Client{
		apiBase: strings.TrimRight(apiBase, "/"),
		http:    &http.Client{Timeout: timeout},
		mem:     expirable.NewLRU[string, RepoMetadata](memCacheSize, nil, memTTL),
		entries: map[string]cacheEntry{},
		now:     time.Now,
	}
	if cacheFile != "" {
		c.disk = cache.New[repoCacheDoc](cacheFile, repoCacheVersion)
		if doc, ok := c.disk.Load(); ok && doc.Entries != nil {
			c.entries = doc.Entries
		}
	}
	return c
}

// SetToken attaches a personal access token to subsequent requests, raising
// the unauthenticated rate limit. An empty token leaves requests anonymous.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Fetch returns best-effort fresh metadata for "owner/name". Results fetched
// within the memory TTL are reused; concurrent fetches of the same repo are
// coalesced. The repo-facts and release-list sub-requests run in parallel and
// are merged field-wise: one of them failing leaves its fields absent rather
// than failing the whole fetch.
func (c *Client) Fetch(ctx context.Context, repo string) (RepoMetadata, error) {
	if meta, ok := c.mem.Get(repo); ok {
		return meta, nil
	}
	v, err, _ := c.group.Do(repo, func() (interface{}, error) {
		if meta, ok := c.mem.Get(repo); ok {
			return meta, nil
		}
		meta, err := c.fetchFresh(ctx, repo)
		if err != nil {
			return RepoMetadata{}, err
		}
		c.mem.Add(repo, meta)
		return meta, nil
	})
	if err != nil {
		return RepoMetadata{}, err
	}
	return v.(RepoMetadata), nil
}

// FetchConditional revalidates the disk-cached entry for "owner/name" using
// its stored ETag. An unmodified response short-circuits without touching the
// disk cache; a fresh response replaces the stored entry. Rate limiting is
// reported as ErrRateLimited so callers can back off instead of retrying.
func (c *Client) FetchConditional(ctx context.Context, repo string) (Conditional, error) {
	c.mu.RLock()
	etag := c.entries[repo].ETag
	c.mu.RUnlock()

	body, newETag, err := c.getJSON(ctx, c.apiBase+"/repos/"+repo, etag)
	if errors.Is(err, errNotModified) {
		return Conditional{NotModified: true}, nil
	}
	if err != nil {
		return Conditional{}, err
	}

	var ar apiRepo
	if err := json.Unmarshal(body, &ar); err != nil {
		return Conditional{}, fmt.Errorf("github: parse repo %s: %w", repo, err)
	}
	meta := metadataFromRepo(ar)

	// Releases have no conditional support; refresh them best-effort and keep
	// the previously cached list when the request fails.
	if rels, err := c.fetchReleases(ctx, repo); err == nil {
		meta.Releases = rels
	} else {
		c.mu.RLock()
		meta.Releases = c.entries[repo].Data.Releases
		c.mu.RUnlock()
	}

	c.storeEntry(repo, meta, newETag)
	return Conditional{Metadata: meta, ETag: newETag}, nil
}

// Cached returns the disk-cached metadata for a repo, if present.
func (c *Client) Cached(repo string) (RepoMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[repo]
	return e.Data, ok
}

// FetchedAt returns the Unix timestamp of the cached entry.
func (c *Client) FetchedAt(repo string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[repo]
	return e.FetchedAt, ok
}

func (c *Client) fetchFresh(ctx context.Context, repo string) (RepoMetadata, error) {
	var (
		wg      sync.WaitGroup
		ar      apiRepo
		repoErr error
		rels    []Release
		relErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		var body []byte
		body, _, repoErr = c.getJSON(ctx, c.apiBase+"/repos/"+repo, "")
		if repoErr != nil {
			return
		}
		repoErr = json.Unmarshal(body, &ar)
	}()
	go func() {
		defer wg.Done()
		rels, relErr = c.fetchReleases(ctx, repo)
	}()
	wg.Wait()

	if repoErr != nil && relErr != nil {
		return RepoMetadata{}, fmt.Errorf("github: fetch %s: %w", repo, repoErr)
	}

	var meta RepoMetadata
	if repoErr == nil {
		meta = metadataFromRepo(ar)
	}
	if relErr == nil {
		meta.Releases = rels
	}
	return meta, nil
}

func (c *Client) fetchReleases(ctx context.Context, repo string) ([]Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases?per_page=%d", c.apiBase, repo, releasePages)
	body, _, err := c.getJSON(ctx, url, "")
	if err != nil {
		return nil, err
	}
	var raw []apiRelease
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("github: parse releases %s: %w", repo, err)
	}
	rels := make([]Release, 0, len(raw))
	for _, r := range raw {
		rel := Release{
			Version:   strings.TrimPrefix(r.TagName, "v"),
			Changelog: r.Body,
		}
		if r.PublishedAt != nil {
			if t, err := time.Parse(time.RFC3339, *r.PublishedAt); err == nil {
				rel.Date = t
			}
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

// getJSON performs one GET. 304 maps to errNotModified, 403 to
// ErrRateLimited, any other non-2xx to HTTPError.
func (c *Client) getJSON(ctx context.Context, url, etag string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "agentdeck")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return nil, "", errNotModified
	case resp.StatusCode == http.StatusForbidden:
		return nil, "", ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, "", &HTTPError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("ETag"), nil
}

func (c *Client) storeEntry(repo string, meta RepoMetadata, etag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[repo] = cacheEntry{Data: meta, ETag: etag, FetchedAt: c.now().Unix()}
	if c.disk == nil {
		return
	}
	snapshot := make(map[string]cacheEntry, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	if err := c.disk.Save(repoCacheDoc{Entries: snapshot}); err != nil && c.saveErr == nil {
		c.saveErr = err
	}
}

// SaveWarning returns the first disk cache save failure, or nil. The cache is
// best-effort, so fetches succeed regardless; this exists so a UI can tell
// the user their results will not survive a restart.
func (c *Client) SaveWarning() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saveErr
}

func metadataFromRepo(ar apiRepo) RepoMetadata {
	stars := ar.StargazersCount
	issues := ar.OpenIssuesCount
	meta := RepoMetadata{Stars: &stars, OpenIssues: &issues}
	if ar.License != nil && ar.License.SPDXID != "" && ar.License.SPDXID != "NOASSERTION" {
		meta.License = ar.License.SPDXID
	}
	if ar.PushedAt != nil {
		if t, err := time.Parse(time.RFC3339, *ar.PushedAt); err == nil {
			meta.LastCommit = &t
		}
	}
	return meta
}
