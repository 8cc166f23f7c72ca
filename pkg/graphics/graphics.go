// Package graphics turns image files into the base64 graphics embedded in a
// model card.
package graphics

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/goliatone/go-modelcard/pkg/card"
)

// MaxImageBytes bounds how much FromReader will read.
const MaxImageBytes = 16 << 20

// ErrNotImage is returned for data that is not a PNG, JPEG or GIF image.
var ErrNotImage = errors.New("graphics: data is not a supported image")

// Encode returns the standard base64 encoding of img.
func Encode(img []byte) string {
	return base64.StdEncoding.EncodeToString(img)
}

// Decode reverses Encode.
func Decode(encoded string) ([]byte, error) {
	out, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("graphics: decode: %w", err)
	}
	return out, nil
}

// FromReader reads an image and returns it as a named graphic.
func FromReader(name string, r io.Reader) (card.Graphic, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return card.Graphic{}, fmt.Errorf("graphics: read %q: %w", name, err)
	}
	if len(data) > MaxImageBytes {
		return card.Graphic{}, fmt.Errorf("graphics: %q exceeds %d bytes", name, MaxImageBytes)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return card.Graphic{}, fmt.Errorf("%w: %q: %v", ErrNotImage, name, err)
	}
	return card.Graphic{Name: card.Some(name), Image: card.Some(Encode(data))}, nil
}

// FromFile reads the image at path.
func FromFile(name, path string) (card.Graphic, error) {
	f, err := os.Open(path)
	if err != nil {
		return card.Graphic{}, fmt.Errorf("graphics: open: %w", err)
	}
	defer f.Close()
	return FromReader(name, f)
}

// Collection groups graphics under a description. An empty description is
// left unset.
func Collection(description string, graphics ...card.Graphic) *card.GraphicsCollection {
	out := &card.GraphicsCollection{Collection: append([]card.Graphic{}, graphics...)}
	if description != "" {
		out.Description = card.Some(description)
	}
	return out
}
