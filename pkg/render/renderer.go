package render

import (
	"context"
	"errors"

	"github.com/goliatone/go-modelcard/pkg/card"
)

// ErrUnknownFormat is returned when no renderer is registered for a format.
var ErrUnknownFormat = errors.New("render: unknown format")

// Renderer turns a model card into a document. Implementations must treat the
// card as read-only.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, c *card.ModelCard, opts Options) ([]byte, error)
}

// Options carries per-call rendering choices. Zero values select the
// renderer's defaults.
type Options struct {
	// Template names a template to use instead of the built-in one. It is
	// resolved through the renderer's template engine.
	Template string
	Theme    string
	Variant  string
}
