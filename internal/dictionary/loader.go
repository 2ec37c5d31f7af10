package dictionary

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ironsheep/swipe-solver/internal/logging"
)

var (
	// ErrFetchStatus is returned when the word list server answers with a
	// non-2xx status.
	ErrFetchStatus = errors.New("dictionary: unexpected fetch status")

	// ErrEmptyWordList is returned when a source holds no usable words.
	ErrEmptyWordList = errors.New("dictionary: empty word list")
)

// DefaultURL is a public newline-delimited English word list.
const DefaultURL = "https://raw.githubusercontent.com/dwyl/english-words/master/words_alpha.txt"

// DefaultTimeout bounds the remote fetch.
const DefaultTimeout = 10 * time.Second

//go:embed fallback_words.txt
var fallbackWords []byte

// Fallback returns the built-in word set.
func Fallback() *Dictionary {
	d, err := Parse(bytes.NewReader(fallbackWords), SourceFallback)
	if err != nil {
		// The embedded list is never empty.
		panic(err)
	}
	return d
}

// DefaultCachePath returns <user cache dir>/swipe-solver/words.txt, or a path
// under the temp dir when no user cache dir is available.
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "swipe-solver", "words.txt")
}

// Loader resolves a Dictionary from the cache file, then the remote word
// list, then the built-in fallback set. The first source that succeeds wins.
type Loader struct {
	// CachePath is the flat word list read first and written after a
	// successful fetch. Empty disables the cache.
	CachePath string

	// URL is fetched when the cache is unusable. Empty disables the fetch.
	URL string

	// Timeout bounds the fetch. Zero means DefaultTimeout.
	Timeout time.Duration

	// Client performs the fetch. Nil means http.DefaultClient.
	Client *http.Client

	Log *logging.Logger
}

// Load never fails: every source error is logged and the next source tried.
func (l *Loader) Load(ctx context.Context) *Dictionary {
	log := l.Log
	if log == nil {
		log = logging.Nop()
	}

	if l.CachePath != "" {
		d, err := l.readCache()
		if err == nil {
			log.Info("dictionary loaded", "source", d.Source(), "words", d.Len(), "path", l.CachePath)
			return d
		}
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("dictionary cache missing", "path", l.CachePath)
		} else {
			log.Warn("dictionary cache unreadable", "path", l.CachePath, "error", err)
		}
	}

	if l.URL != "" {
		d, err := l.fetch(ctx)
		if err == nil {
			log.Info("dictionary loaded", "source", d.Source(), "words", d.Len(), "url", l.URL)
			if l.CachePath != "" {
				if err := l.writeCache(d); err != nil {
					log.Warn("failed to persist dictionary cache", "path", l.CachePath, "error", err)
				}
			}
			return d
		}
		log.Warn("dictionary fetch failed", "url", l.URL, "error", err)
	}

	d := Fallback()
	log.Info("dictionary loaded", "source", d.Source(), "words", d.Len())
	return d
}

func (l *Loader) readCache() (*Dictionary, error) {
	f, err := os.Open(l.CachePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, SourceCache)
}

func (l *Loader) fetch(ctx context.Context) (*Dictionary, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch word list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d", ErrFetchStatus, resp.StatusCode)
	}
	return Parse(resp.Body, SourceRemote)
}

// writeCache replaces the cache file atomically.
func (l *Loader) writeCache(d *Dictionary) error {
	dir := filepath.Dir(l.CachePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".words-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := d.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.CachePath); err != nil {
		return fmt.Errorf("failed to replace cache: %w", err)
	}
	return nil
}
