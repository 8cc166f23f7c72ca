package payload

import (
	"io/fs"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds URL fetches unless a caller overrides it.
const DefaultRequestTimeout = 10 * time.Second

// LoaderOptions decide which source kinds a Loader can resolve. Files on disk
// always work; fs sources need FileSystem and URL sources need HTTPClient or
// AllowHTTPFallback.
type LoaderOptions struct {
	FileSystem        fs.FS
	HTTPClient        *http.Client
	AllowHTTPFallback bool
	RequestTimeout    time.Duration
}

type LoaderOption func(*LoaderOptions)

func WithFileSystem(fsys fs.FS) LoaderOption {
	return func(o *LoaderOptions) { o.FileSystem = fsys }
}

// WithHTTPClient enables URL sources through client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(o *LoaderOptions) { o.HTTPClient = client }
}

// WithHTTPFallback enables URL sources through a plain client with the given
// timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(o *LoaderOptions) {
		o.AllowHTTPFallback = true
		o.RequestTimeout = timeout
	}
}

func NewLoaderOptions(opts ...LoaderOption) LoaderOptions {
	o := LoaderOptions{RequestTimeout: DefaultRequestTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
