package snapshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
)

// Source produces the current snapshot. Load failures surface as
// ErrNotAvailable (wrapped) when the document has not been generated yet.
type Source interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
}

// FileSource reads the snapshot from a local file written by the analyzer.
// The parsed snapshot is cached and re-read only when the file's mtime
// changes, so each dashboard request sees the latest published data without
// re-parsing on every hit.
type FileSource struct {
	Path string

	mu      sync.Mutex
	modTime time.Time
	cached  *domain.Snapshot
}

// NewFileSource creates a FileSource for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load returns the current snapshot, re-reading the file when it changed.
func (s *FileSource) Load(_ context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fi, err := os.Stat(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotAvailable, s.Path)
		}
		return nil, err
	}

	if s.cached != nil && fi.ModTime().Equal(s.modTime) {
		return s.cached, nil
	}

	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	snap, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	s.modTime = fi.ModTime()
	s.cached = snap
	return snap, nil
}

// HTTPSource fetches the snapshot document from a URL, for deployments where
// the published JSON lives behind a static file host rather than on local
// disk. No retry: a failed fetch is reported as not-available.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates an HTTPSource with a sane default client.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Load fetches and parses the snapshot document.
func (s *HTTPSource) Load(ctx context.Context) (*domain.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAvailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: fetching %s: status %d", ErrNotAvailable, s.URL, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}
