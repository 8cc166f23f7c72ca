package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
output_dir = "assets"
format = "markdown"
theme = "modelcard"
variant = "dark"
log_level = "debug"

[extract]
model_path = "/models/census"
eval_metrics = "eval.yaml"
exclude = ["loss"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.OutputDir = "assets"
	want.Format = "markdown"
	want.Theme = "modelcard"
	want.Variant = "dark"
	want.LogLevel = "debug"
	want.Extract = Extract{ModelPath: "/models/census", EvalMetrics: "eval.yaml", Exclude: []string{"loss"}}
	assert.Equal(t, want, cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKeysAndBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, `outptu_dir = "x"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outptu_dir")

	_, err = Load(writeConfig(t, "format = \"pdf\"\nlog_level = \"loud\"\n"))
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs), "err = %v", err)
	require.Len(t, verrs, 2)
	assert.Equal(t, "format", verrs[0].Field)
	assert.Equal(t, "log_level", verrs[1].Field)

	_, err = Load(writeConfig(t, `format = [`))
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Theme = "acme"
	cfg.Extract.Include = []string{"auc*"}
	cfg.Extract.Exclude = []string{"auc_pr"}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	cfg.OutputDir = ""
	assert.Error(t, Save(cfg, path))
}
