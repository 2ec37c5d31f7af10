package dictionary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoad_Remote(t *testing.T) {
	srv := wordServer(t, http.StatusOK, "zebra\nquartz\n", nil)
	cache := filepath.Join(t.TempDir(), "nested", "words.txt")

	l := &Loader{CachePath: cache, URL: srv.URL}
	d := l.Load(context.Background())

	assert.Equal(t, SourceRemote, d.Source())
	assert.True(t, d.Contains("ZEBRA"))

	data, err := os.ReadFile(cache)
	require.NoError(t, err, "fetch should persist the cache")
	assert.Equal(t, "QUARTZ\nZEBRA\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(cache))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLoad_CacheWins(t *testing.T) {
	var hits int32
	srv := wordServer(t, http.StatusOK, "zebra\n", &hits)
	cache := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(cache, []byte("OTTER\nHERON\n"), 0o644))

	d := (&Loader{CachePath: cache, URL: srv.URL}).Load(context.Background())

	assert.Equal(t, SourceCache, d.Source())
	assert.True(t, d.Contains("OTTER"))
	assert.False(t, d.Contains("ZEBRA"))
	assert.Zero(t, atomic.LoadInt32(&hits), "remote should not be contacted")
}

func TestLoad_EmptyCacheFallsThrough(t *testing.T) {
	srv := wordServer(t, http.StatusOK, "zebra\n", nil)
	cache := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(cache, nil, 0o644))

	d := (&Loader{CachePath: cache, URL: srv.URL}).Load(context.Background())
	assert.Equal(t, SourceRemote, d.Source())
}

func TestLoad_BadStatus(t *testing.T) {
	srv := wordServer(t, http.StatusInternalServerError, "zebra\n", nil)
	cache := filepath.Join(t.TempDir(), "words.txt")

	d := (&Loader{CachePath: cache, URL: srv.URL}).Load(context.Background())

	assert.Equal(t, SourceFallback, d.Source())
	_, err := os.Stat(cache)
	assert.True(t, os.IsNotExist(err), "failed fetch must not write the cache")
}

func TestFetch_StatusError(t *testing.T) {
	srv := wordServer(t, http.StatusNotFound, "", nil)

	_, err := (&Loader{URL: srv.URL}).fetch(context.Background())
	assert.ErrorIs(t, err, ErrFetchStatus)
}

func TestFetch_EmptyBody(t *testing.T) {
	srv := wordServer(t, http.StatusOK, "\n\n", nil)

	_, err := (&Loader{URL: srv.URL}).fetch(context.Background())
	assert.ErrorIs(t, err, ErrEmptyWordList)
}

func TestLoad_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	start := time.Now()
	d := (&Loader{URL: srv.URL, Timeout: 50 * time.Millisecond}).Load(context.Background())

	assert.Equal(t, SourceFallback, d.Source())
	assert.Less(t, time.Since(start), 3*time.Second)
}

// A network failure still yields a usable dictionary, and words from the
// built-in set remain solvable.
func TestLoad_NetworkFailureUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	d := (&Loader{CachePath: filepath.Join(t.TempDir(), "words.txt"), URL: url}).Load(context.Background())

	require.NotNil(t, d)
	assert.Equal(t, SourceFallback, d.Source())
	for _, w := range []string{"TAP", "PAT", "APT"} {
		assert.True(t, d.Contains(w))
	}
}

func TestLoad_NoSources(t *testing.T) {
	d := (&Loader{}).Load(context.Background())
	assert.Equal(t, SourceFallback, d.Source())
}

func TestShared_AtMostOnce(t *testing.T) {
	resetShared()
	t.Cleanup(resetShared)

	var hits int32
	srv := wordServer(t, http.StatusOK, "zebra\n", &hits)
	l := &Loader{URL: srv.URL}

	var wg sync.WaitGroup
	results := make([]*Dictionary, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Shared(context.Background(), l)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	for _, d := range results {
		assert.Same(t, results[0], d)
	}
}
