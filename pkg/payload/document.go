package payload

import (
	"context"
	"errors"
)

// Document is a payload as read from its Source, not yet decoded.
type Document struct {
	src  Source
	body []byte
}

// NewDocument keeps its own copy of raw; callers may reuse the buffer.
func NewDocument(src Source, raw []byte) (Document, error) {
	switch {
	case src == nil:
		return Document{}, errors.New("payload: document has no source")
	case len(raw) == 0:
		return Document{}, errors.New("payload: document is empty")
	}
	return Document{src: src, body: append([]byte(nil), raw...)}, nil
}

// Raw returns a copy of the document body.
func (d Document) Raw() []byte { return append([]byte(nil), d.body...) }

func (d Document) Location() string {
	if d.src == nil {
		return ""
	}
	return d.src.Location()
}

// Decode parses the body with the package-level Decode.
func (d Document) Decode() (map[string]any, Format, error) {
	return Decode(d.body)
}

// Loader fetches payload documents. internal/loader provides the
// implementation used by the toolkit and the extractors.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}
