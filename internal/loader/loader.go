// Package loader reads model card payloads from files, an fs.FS or HTTP.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-modelcard/pkg/payload"
)

// maxPayloadBytes caps every payload; cards with inline graphics are large
// but never this large.
const maxPayloadBytes = 32 << 20

// Error reports a payload that could not be read. It unwraps to the
// underlying cause, so errors.Is(err, fs.ErrNotExist) works for missing
// files.
type Error struct {
	Kind     payload.SourceKind
	Location string
	Err      error
}

func (e *Error) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("payload loader: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("payload loader: %s %s: %v", e.Kind, e.Location, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type readFunc func(ctx context.Context, location string) ([]byte, error)

// Loader implements payload.Loader. Each source kind has its own reader;
// kinds without a reader (fs without a FileSystem, URLs without HTTP) are
// rejected.
type Loader struct {
	readers map[payload.SourceKind]readFunc
}

var _ payload.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options payload.LoaderOptions) *Loader {
	l := &Loader{readers: map[payload.SourceKind]readFunc{
		payload.SourceKindFile: loadFile,
	}}
	if options.FileSystem != nil {
		files := options.FileSystem
		l.readers[payload.SourceKindFS] = func(ctx context.Context, name string) ([]byte, error) {
			return loadFromFS(ctx, files, name)
		}
	}
	if client := httpClient(options); client != nil {
		timeout := options.RequestTimeout
		l.readers[payload.SourceKindURL] = func(ctx context.Context, url string) ([]byte, error) {
			return loadHTTP(ctx, client, url, timeout)
		}
	}
	return l
}

func httpClient(options payload.LoaderOptions) *http.Client {
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if options.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		return &clone
	case options.AllowHTTPFallback:
		return &http.Client{Timeout: options.RequestTimeout}
	default:
		return nil
	}
}

// Load fetches a payload from src and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src payload.Source) (payload.Document, error) {
	if src == nil {
		return payload.Document{}, &Error{Kind: "unknown", Err: errors.New("source is nil")}
	}
	read, ok := l.readers[src.Kind()]
	if !ok {
		return payload.Document{}, &Error{Kind: src.Kind(), Location: src.Location(), Err: unsupported(src.Kind())}
	}

	data, err := read(ctx, src.Location())
	if err != nil {
		return payload.Document{}, &Error{Kind: src.Kind(), Location: src.Location(), Err: err}
	}
	if len(data) > maxPayloadBytes {
		return payload.Document{}, &Error{Kind: src.Kind(), Location: src.Location(), Err: fmt.Errorf("payload exceeds %d bytes", maxPayloadBytes)}
	}
	return payload.NewDocument(src, data)
}

func unsupported(kind payload.SourceKind) error {
	switch kind {
	case payload.SourceKindFS:
		return errors.New("no file system configured")
	case payload.SourceKindURL:
		return errors.New("http support disabled")
	default:
		return errors.New("unsupported source kind")
	}
}

// statLimit rejects files known to exceed the cap before reading them.
func statLimit(info fs.FileInfo) error {
	if info.Size() > maxPayloadBytes {
		return fmt.Errorf("payload exceeds %d bytes", maxPayloadBytes)
	}
	return nil
}
