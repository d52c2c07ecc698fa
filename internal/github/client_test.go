package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	repoBody = `{
		"stargazers_count": 4200,
		"open_issues_count": 17,
		"pushed_at": "2025-06-01T12:00:00Z",
		"license": {"spdx_id": "Apache-2.0"}
	}`
	releasesBody = `[
		{"tag_name": "v1.2.0", "published_at": "2025-05-20T00:00:00Z", "body": "minor fixes"},
		{"tag_name": "v1.1.0", "published_at": "2025-04-01T00:00:00Z", "body": ""}
	]`
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(srv.URL, filepath.Join(t.TempDir(), "repos.json"), time.Hour, 5*time.Second)
	return c, srv
}

func TestFetchMergesBothRequests(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/tool":
			w.Write([]byte(repoBody))
		case "/repos/acme/tool/releases":
			w.Write([]byte(releasesBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	meta, err := c.Fetch(context.Background(), "acme/tool")
	require.NoError(t, err)
	require.NotNil(t, meta.Stars)
	assert.Equal(t, 4200, *meta.Stars)
	require.NotNil(t, meta.OpenIssues)
	assert.Equal(t, 17, *meta.OpenIssues)
	assert.Equal(t, "Apache-2.0", meta.License)
	require.Len(t, meta.Releases, 2)
	assert.Equal(t, "1.2.0", meta.Releases[0].Version)
	assert.Equal(t, "minor fixes", meta.Releases[0].Changelog)
}

func TestFetchPartialFailureKeepsOtherHalf(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/tool":
			w.WriteHeader(http.StatusInternalServerError)
		case "/repos/acme/tool/releases":
			w.Write([]byte(releasesBody))
		}
	}))

	meta, err := c.Fetch(context.Background(), "acme/tool")
	require.NoError(t, err, "one sub-request failing must not fail the fetch")
	assert.Nil(t, meta.Stars, "stars must be absent, not zero")
	assert.Nil(t, meta.OpenIssues)
	require.Len(t, meta.Releases, 2)
}

func TestFetchBothFail(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.Fetch(context.Background(), "acme/tool")
	require.Error(t, err)
}

func TestFetchUsesMemoryCache(t *testing.T) {
	var hits atomic.Int64
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/repos/acme/tool" {
			w.Write([]byte(repoBody))
		} else {
			w.Write([]byte(releasesBody))
		}
	}))

	_, err := c.Fetch(context.Background(), "acme/tool")
	require.NoError(t, err)
	first := hits.Load()

	_, err = c.Fetch(context.Background(), "acme/tool")
	require.NoError(t, err)
	assert.Equal(t, first, hits.Load(), "second fetch within TTL must not hit the network")
}

func TestFetchNoAssertionLicenseFiltered(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/acme/tool" {
			w.Write([]byte(`{"stargazers_count": 1, "open_issues_count": 0, "license": {"spdx_id": "NOASSERTION"}}`))
		} else {
			w.Write([]byte(`[]`))
		}
	}))

	meta, err := c.Fetch(context.Background(), "acme/tool")
	require.NoError(t, err)
	assert.Empty(t, meta.License)
}

func TestFetchConditional(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/tool":
			if r.Header.Get("If-None-Match") == `"tag-1"` {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("ETag", `"tag-1"`)
			w.Write([]byte(repoBody))
		case "/repos/acme/tool/releases":
			w.Write([]byte(releasesBody))
		}
	}))

	t0 := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return t0 }

	res, err := c.FetchConditional(context.Background(), "acme/tool")
	require.NoError(t, err)
	assert.False(t, res.NotModified)
	assert.Equal(t, `"tag-1"`, res.ETag)
	require.NotNil(t, res.Metadata.Stars)

	fetched, ok := c.FetchedAt("acme/tool")
	require.True(t, ok)
	assert.Equal(t, t0.Unix(), fetched)

	// Second conditional fetch: server reports unchanged. The cached entry,
	// including its timestamp, must stay untouched.
	c.now = func() time.Time { return t0.Add(time.Hour) }
	res, err = c.FetchConditional(context.Background(), "acme/tool")
	require.NoError(t, err)
	assert.True(t, res.NotModified)

	fetched, ok = c.FetchedAt("acme/tool")
	require.True(t, ok)
	assert.Equal(t, t0.Unix(), fetched, "304 must not rewrite fetched_at")
}

func TestFetchConditionalRateLimited(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := c.FetchConditional(context.Background(), "acme/tool")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestFetchConditionalHTTPError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.FetchConditional(context.Background(), "acme/tool")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.Status)
}

func TestDiskCachePersistsAcrossClients(t *testing.T) {
	cacheFile := filepath.Join(t.TempDir(), "repos.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/acme/tool" {
			w.Header().Set("ETag", `"tag-1"`)
			w.Write([]byte(repoBody))
		} else {
			w.Write([]byte(releasesBody))
		}
	}))
	defer srv.Close()

	c1 := New(srv.URL, cacheFile, time.Hour, 5*time.Second)
	_, err := c1.FetchConditional(context.Background(), "acme/tool")
	require.NoError(t, err)

	c2 := New(srv.URL, cacheFile, time.Hour, 5*time.Second)
	meta, ok := c2.Cached("acme/tool")
	require.True(t, ok, "fresh client should see the persisted entry")
	require.NotNil(t, meta.Stars)
	assert.Equal(t, 4200, *meta.Stars)
}

func TestDiskCacheVersionMismatchIgnored(t *testing.T) {
	cacheFile := filepath.Join(t.TempDir(), "repos.json")
	stale := `{"version": 99, "entries": {"acme/tool": {"data": {"stars": 1}, "etag": "\"old\"", "fetched_at": 1}}}`
	require.NoError(t, os.WriteFile(cacheFile, []byte(stale), 0o600))

	c := New("http://unused", cacheFile, time.Hour, 5*time.Second)
	_, ok := c.Cached("acme/tool")
	assert.False(t, ok, "entries behind a version bump must be invisible")
}

func TestSaveWarningSurfacesDiskFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/acme/tool" {
			w.Header().Set("ETag", `"tag-1"`)
			w.Write([]byte(repoBody))
		} else {
			w.Write([]byte(releasesBody))
		}
	}))
	defer srv.Close()

	// The cache path sits under a regular file, so every save must fail.
	c := New(srv.URL, filepath.Join(blocker, "repos.json"), time.Hour, 5*time.Second)
	require.NoError(t, c.SaveWarning(), "no warning before any save attempt")

	res, err := c.FetchConditional(context.Background(), "acme/tool")
	require.NoError(t, err, "a failed cache save must not fail the fetch")
	require.NotNil(t, res.Metadata.Stars)

	assert.Error(t, c.SaveWarning())
}
