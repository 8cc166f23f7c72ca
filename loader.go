package modelcard

import (
	"github.com/goliatone/go-modelcard/internal/loader"
	"github.com/goliatone/go-modelcard/pkg/payload"
)

// NewLoader constructs a payload loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...payload.LoaderOption) payload.Loader {
	return loader.New(payload.NewLoaderOptions(options...))
}
