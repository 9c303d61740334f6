package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"
)

// Loader reads document bytes from a Source.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem serves SourceKindFS sources from files.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(l *Loader) { l.fs = files }
}

// WithHTTPClient enables URL sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) { l.http = client }
}

// WithTimeout bounds each read.
func WithTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) { l.timeout = timeout }
}

// NewLoader builds a Loader. URL sources are rejected unless an HTTP client
// is configured.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Read returns the raw document of src.
func (l *Loader) Read(ctx context.Context, src Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("schema loader: source is nil")
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch src.Kind() {
	case SourceKindFile:
		return os.ReadFile(src.Location())
	case SourceKindFS:
		if l.fs == nil {
			return nil, errors.New("schema loader: filesystem is not configured")
		}
		return fs.ReadFile(l.fs, src.Location())
	case SourceKindURL:
		if l.http == nil {
			return nil, errors.New("schema loader: http support disabled")
		}
		return l.fetch(ctx, src.Location())
	default:
		return nil, fmt.Errorf("schema loader: unsupported source kind %q", src.Kind())
	}
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("schema loader: build request: %w", err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schema loader: fetch %s: %w", location, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("schema loader: fetch %s: unexpected status %d", location, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
