package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source identifies where an OpenAPI document comes from.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct{ path string }

func (s fileSource) Kind() SourceKind { return SourceKindFile }
func (s fileSource) Location() string { return s.path }

type fsSource struct{ name string }

func (s fsSource) Kind() SourceKind { return SourceKindFS }
func (s fsSource) Location() string { return s.name }

type urlSource struct{ raw string }

func (s urlSource) Kind() SourceKind { return SourceKindURL }
func (s urlSource) Location() string { return s.raw }

// SourceFromFile points at a file on disk.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// SourceFromFS points at a file inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// SourceFromURL validates raw and points at an HTTP(S) document.
func SourceFromURL(raw string) (Source, error) {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("schema: unsupported URL scheme %q", u.Scheme)
	}
	return urlSource{raw: raw}, nil
}

// ParseSource picks a URL source for http(s) locations and a file source
// otherwise.
func ParseSource(location string) (Source, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return SourceFromURL(location)
	}
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("schema: empty source location")
	}
	return SourceFromFile(location), nil
}
