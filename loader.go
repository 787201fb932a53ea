package enhance

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	// Register the standard and extended format decoders so image.Decode
	// can sniff PNG, JPEG, GIF, WebP, BMP and TIFF sources.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Fetcher resolves an opaque image reference to raw encoded bytes.
// The default fetcher understands http(s) URLs, data: URIs, and local
// file paths.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, ref string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return f(ctx, ref)
}

// ByteStore is the optional persistence capability offered by an external
// cache layer. The engine consults it before fetching and populates it
// with enhancement results. Both operations are best-effort.
type ByteStore interface {
	Get(ctx context.Context, url string) ([]byte, bool)
	Put(ctx context.Context, url string, data []byte)
}

// Loader resolves image references to decoded pixmaps and memoizes the
// result by the exact reference string for its own lifetime. There is no
// TTL and no size bound; unbounded growth is an accepted tradeoff of this
// subsystem, and callers needing eviction must wrap it.
//
// Cached pixmaps are treated as immutable: concurrent reads are safe, and
// callers that mutate pixels must Clone first. Concurrent loads of the
// same uncached reference are collapsed into a single fetch-and-decode
// flight; the losers wait for and share the winner's result.
type Loader struct {
	fetcher Fetcher
	store   ByteStore

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]*Pixmap
}

// NewLoader creates a loader using the given fetcher and optional byte
// store. A nil fetcher selects the default (http, data:, file).
func NewLoader(fetcher Fetcher, store ByteStore) *Loader {
	if fetcher == nil {
		fetcher = defaultFetcher{}
	}
	return &Loader{
		fetcher: fetcher,
		store:   store,
		cache:   make(map[string]*Pixmap),
	}
}

// Load resolves ref to a decoded pixmap, fetching and decoding on the
// first call and returning the cached instance afterwards. Failures are
// reported as *DecodeError.
//
// The returned pixmap is shared: callers must not mutate it.
func (l *Loader) Load(ctx context.Context, ref string) (*Pixmap, error) {
	l.mu.RLock()
	pm, ok := l.cache[ref]
	l.mu.RUnlock()
	if ok {
		return pm, nil
	}

	v, err, _ := l.group.Do(ref, func() (any, error) {
		// Re-check under the flight: a previous flight may have
		// populated the cache between the miss and Do.
		l.mu.RLock()
		pm, ok := l.cache[ref]
		l.mu.RUnlock()
		if ok {
			return pm, nil
		}

		pm, err := l.fetchAndDecode(ctx, ref)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.cache[ref] = pm
		l.mu.Unlock()
		return pm, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Pixmap), nil
}

// fetchAndDecode resolves the reference to bytes (store first, fetcher
// second) and decodes them.
func (l *Loader) fetchAndDecode(ctx context.Context, ref string) (*Pixmap, error) {
	var data []byte
	if l.store != nil {
		if cached, ok := l.store.Get(ctx, ref); ok {
			data = cached
		}
	}
	if data == nil {
		fetched, err := l.fetcher.Fetch(ctx, ref)
		if err != nil {
			return nil, &DecodeError{Ref: ref, Err: err}
		}
		data = fetched
		if l.store != nil {
			l.store.Put(ctx, ref, data)
		}
	}

	if len(data) == 0 {
		return nil, &DecodeError{Ref: ref, Err: errors.New("empty data")}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Ref: ref, Err: err}
	}
	return FromImage(img), nil
}

// Invalidate removes a reference from the cache. The next Load for this
// reference fetches and decodes again.
func (l *Loader) Invalidate(ref string) {
	l.mu.Lock()
	delete(l.cache, ref)
	l.mu.Unlock()
}

// clear drops every cached pixmap.
func (l *Loader) clear() {
	l.mu.Lock()
	l.cache = make(map[string]*Pixmap)
	l.mu.Unlock()
}

// len reports the number of cached entries.
func (l *Loader) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

// defaultFetcher resolves http(s) URLs, data: URIs and local file paths.
type defaultFetcher struct{}

func (defaultFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	default:
		return os.ReadFile(ref)
	}
}

// decodeDataURI extracts the payload of a data: URI. Only base64 payloads
// are supported; that is the shape the engine itself emits.
func decodeDataURI(ref string) ([]byte, error) {
	comma := strings.IndexByte(ref, ',')
	if comma < 0 {
		return nil, errors.New("malformed data URI")
	}
	meta, payload := ref[len("data:"):comma], ref[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("data URI payload is not base64")
	}
	return base64.StdEncoding.DecodeString(payload)
}
