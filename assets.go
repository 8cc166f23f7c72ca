package modelcard

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-modelcard/pkg/render"
)

// EmbeddedTemplates exposes the built-in HTML and Markdown templates so
// callers can reuse or extend them without importing the render package.
func EmbeddedTemplates() fs.FS {
	return render.Templates()
}

// copyTemplates writes every file of fsys below dir, replacing files that
// already exist.
func copyTemplates(fsys fs.FS, dir string) error {
	return fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(name))
		if d.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("modelcard: create %s: %w", target, err)
			}
			return nil
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("modelcard: read template %s: %w", name, err)
		}
		return writeFile(target, data)
	})
}
