package github

import (
	"errors"
	"fmt"
	"time"
)

// Release is one published release of a tracked repository, ordered as
// returned by the API (newest first).
type Release struct {
	Version   string    `json:"version"`
	Date      time.Time `json:"date"`
	Changelog string    `json:"changelog,omitempty"`
}

// RepoMetadata holds the fetched facts for one repository. Stars and
// OpenIssues are pointers so a failed sub-request leaves them absent rather
// than zero.
type RepoMetadata struct {
	Stars      *int       `json:"stars,omitempty"`
	OpenIssues *int       `json:"open_issues,omitempty"`
	License    string     `json:"license,omitempty"`
	LastCommit *time.Time `json:"last_commit,omitempty"`
	Releases   []Release  `json:"releases,omitempty"`
}

// LatestRelease returns the newest release, if any.
func (m RepoMetadata) LatestRelease() (Release, bool) {
	if len(m.Releases) == 0 {
		return Release{}, false
	}
	return m.Releases[0], true
}

// Conditional is the outcome of FetchConditional. When NotModified is true
// the disk-cached data remains authoritative and Metadata/ETag are unset.
type Conditional struct {
	NotModified bool
	Metadata    RepoMetadata
	ETag        string
}

// ErrRateLimited is returned when the API answers 403. Callers should not
// retry immediately.
var ErrRateLimited = errors.New("github: rate limited")

// HTTPError is a non-success response other than the specially handled
// 304 and 403.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("github: unexpected status %d", e.Status)
}

// cacheEntry is one repo's persisted record: data, revalidation tag, and the
// Unix timestamp of the fetch that produced it.
type cacheEntry struct {
	Data      RepoMetadata `json:"data"`
	ETag      string       `json:"etag,omitempty"`
	FetchedAt int64        `json:"fetched_at"`
}

// repoCacheDoc is the disk cache document: repo key -> cached entry.
type repoCacheDoc struct {
	Entries map[string]cacheEntry `json:"entries"`
}

// API response shapes; only the fields we read.

type apiRepo struct {
	StargazersCount int     `json:"stargazers_count"`
	OpenIssuesCount int     `json:"open_issues_count"`
	PushedAt        *string `json:"pushed_at"`
	License         *struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

type apiRelease struct {
	TagName     string  `json:"tag_name"`
	Name        string  `json:"name"`
	PublishedAt *string `json:"published_at"`
	Body        string  `json:"body"`
}
