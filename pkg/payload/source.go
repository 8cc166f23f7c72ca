package payload

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// SourceKind tells a Loader how to resolve a Source's location.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source names a payload: a path on disk, a path inside the loader's fs.FS,
// or an http(s) URL.
type Source interface {
	Kind() SourceKind
	Location() string
}

type location struct {
	kind SourceKind
	at   string
}

func (l location) Kind() SourceKind { return l.kind }
func (l location) Location() string { return l.at }
func (l location) String() string   { return string(l.kind) + ":" + l.at }

// SourceFromFile points at a card or eval report on disk.
func SourceFromFile(path string) Source {
	return location{kind: SourceKindFile, at: filepath.Clean(path)}
}

// SourceFromFS points at a payload inside the fs.FS given to the loader with
// WithFileSystem.
func SourceFromFS(name string) Source {
	return location{kind: SourceKindFS, at: name}
}

// SourceFromURL checks that raw is an absolute http or https URL.
func SourceFromURL(raw string) (Source, error) {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, fmt.Errorf("payload: url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("payload: url %q: scheme must be http or https", raw)
	}
	return location{kind: SourceKindURL, at: raw}, nil
}

// MustSourceFromURL panics where SourceFromURL would fail.
func MustSourceFromURL(raw string) Source {
	src, err := SourceFromURL(raw)
	if err != nil {
		panic(err)
	}
	return src
}
