package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var payloadExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if err := checkExtension(abs); err != nil {
		return nil, err
	}
	if err := statLimit(info); err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("fs path is required")
	}
	if files == nil {
		return nil, errors.New("fs is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("invalid fs path %q", name)
	}
	if err := checkExtension(name); err != nil {
		return nil, err
	}
	if info, err := fs.Stat(files, name); err == nil {
		if err := statLimit(info); err != nil {
			return nil, err
		}
	}
	return fs.ReadFile(files, name)
}

// checkExtension accepts paths without an extension so piped or generated
// files still load; anything else must look like JSON or YAML.
func checkExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" || payloadExtensions[ext] {
		return nil
	}
	return fmt.Errorf("unsupported file type %q", ext)
}
