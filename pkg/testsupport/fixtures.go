// Package testsupport holds fixture and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modelcard/pkg/card"
	"github.com/goliatone/go-modelcard/pkg/payload"
)

// updateEnv rewrites golden files instead of comparing against them.
const updateEnv = "UPDATE_GOLDENS"

func readFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("fixture %s: %v", path, err)
	}
	return data
}

// LoadPayload wraps a JSON or YAML fixture in a Document with a file source,
// the same shape the loader hands to the toolkit.
func LoadPayload(t *testing.T, path string) payload.Document {
	t.Helper()
	doc, err := payload.NewDocument(payload.SourceFromFile(path), readFixture(t, path))
	if err != nil {
		t.Fatalf("fixture %s: %v", path, err)
	}
	return doc
}

// MustLoadCard decodes a current-version JSON fixture. Legacy payloads go
// through LoadPayload and the toolkit instead.
func MustLoadCard(t *testing.T, path string) *card.ModelCard {
	t.Helper()
	c, err := card.FromJSON(readFixture(t, path))
	if err != nil {
		t.Fatalf("fixture %s: %v", path, err)
	}
	return c
}

// CompareGolden returns a (-want +got) diff, or "" when equal.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(readFixture(t, path))
}

// WriteMaybeGolden rewrites path with data when UPDATE_GOLDENS is set and
// reports whether it did; the caller should return without comparing.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv(updateEnv) == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("golden %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("golden %s: %v", path, err)
	}
	return true
}

func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written, so tests can check they agree.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}
