package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modelcard/pkg/payload"
)

const cardJSON = `{"model_details":{"name":"cats_vs_dogs"}}`

func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.json")
	if err := os.WriteFile(path, []byte(cardJSON), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := New(payload.NewLoaderOptions())
	doc, err := l.Load(context.Background(), payload.SourceFromFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cardJSON, string(doc.Raw())); diff != "" {
		t.Fatalf("raw mismatch (-want +got):\n%s", diff)
	}
	if doc.Location() != path {
		t.Fatalf("location = %q, want %q", doc.Location(), path)
	}
}

func TestLoaderRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.txt")
	if err := os.WriteFile(path, []byte(cardJSON), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	l := New(payload.NewLoaderOptions())
	if _, err := l.Load(context.Background(), payload.SourceFromFile(path)); err == nil {
		t.Fatalf("expected extension error")
	}
}

func TestLoaderLoadFS(t *testing.T) {
	files := fstest.MapFS{
		"cards/card.yaml": {Data: []byte("model_details:\n  name: cats_vs_dogs\n")},
	}
	l := New(payload.NewLoaderOptions(payload.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), payload.SourceFromFS("cards/card.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, format, err := doc.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != payload.FormatYAML {
		t.Fatalf("format = %q, want yaml", format)
	}
	want := map[string]any{"model_details": map[string]any{"name": "cats_vs_dogs"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestLoaderHTTPDisabledByDefault(t *testing.T) {
	l := New(payload.NewLoaderOptions())
	_, err := l.Load(context.Background(), payload.MustSourceFromURL("https://example.com/card.json"))
	if err == nil {
		t.Fatalf("expected http disabled error")
	}
}

func TestLoaderLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/card.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(cardJSON))
	}))
	defer srv.Close()

	l := New(payload.NewLoaderOptions(payload.WithHTTPClient(srv.Client())))

	doc, err := l.Load(context.Background(), payload.MustSourceFromURL(srv.URL+"/card.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(doc.Raw()) != cardJSON {
		t.Fatalf("unexpected body %q", doc.Raw())
	}

	if _, err := l.Load(context.Background(), payload.MustSourceFromURL(srv.URL+"/missing.json")); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestLoaderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := New(payload.NewLoaderOptions())
	if _, err := l.Load(ctx, payload.SourceFromFile("card.json")); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestLoaderErrorsCarryLocation(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	_, err := New(payload.NewLoaderOptions()).Load(context.Background(), payload.SourceFromFile(missing))

	var lerr *Error
	if !errors.As(err, &lerr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if lerr.Location != missing || lerr.Kind != payload.SourceKindFile {
		t.Fatalf("unexpected error fields: %+v", lerr)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist in chain", err)
	}

	_, err = New(payload.NewLoaderOptions()).Load(context.Background(), payload.SourceFromFS("card.json"))
	if !errors.As(err, &lerr) || lerr.Kind != payload.SourceKindFS {
		t.Fatalf("err = %v, want fs kind error", err)
	}
}
