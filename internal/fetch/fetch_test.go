package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFreshAndNotModified(t *testing.T) {
	const body = "# Events 2025\n"
	var requests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())

	// First fetch: fresh content, cache populated.
	res, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, body, string(res.Body))

	// Second fetch: conditional request answered with 304, body
	// served from cache.
	res, err = f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, body, string(res.Body))

	assert.Equal(t, 2, requests)
}

func TestFetchFallsBackToCacheOnNetworkError(t *testing.T) {
	const body = "cached listing\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))

	f := NewFetcher(t.TempDir())

	res, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, body, string(res.Body))

	// Server goes away; the cached body keeps the run alive.
	srv.Close()

	res, err = f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, body, string(res.Body))
}

func TestFetchErrorWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())

	_, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetchEmptyURL(t *testing.T) {
	f := NewFetcher(t.TempDir())

	_, err := f.Fetch(context.Background(), "")
	assert.Error(t, err)
}
