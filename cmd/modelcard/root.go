package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	modelcard "github.com/goliatone/go-modelcard"
	"github.com/goliatone/go-modelcard/internal/config"
	"github.com/goliatone/go-modelcard/internal/logging"
	"github.com/goliatone/go-modelcard/pkg/prompt"
)

const version = "0.2.0"

// app carries the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	overrides  config.Config

	cfg    *config.Config
	logger hclog.Logger
	driver func() prompt.Driver
}

func newApp() *app {
	return &app{driver: prompt.NewSurveyDriver}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "modelcard",
		Short:         "Build, validate and publish model cards",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to the project config (default ./"+config.FileName+" when present)")
	flags.StringVar(&a.overrides.OutputDir, "output-dir", "", "Asset directory")
	flags.StringVar(&a.overrides.Format, "format", "", "Document format (html, markdown)")
	flags.StringVar(&a.overrides.Theme, "theme", "", "Theme name")
	flags.StringVar(&a.overrides.Variant, "variant", "", "Theme variant")
	flags.StringVar(&a.overrides.TemplateDir, "template-dir", "", "Directory of templates overriding the defaults")
	flags.StringVar(&a.overrides.StorePath, "store", "", "Path of the artifact store database")
	flags.StringVar(&a.overrides.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newValidateCmd(a),
		newMigrateCmd(a),
		newConvertCmd(a),
		newScaffoldCmd(a),
		newExportCmd(a),
		newPreviewCmd(a),
		newWatchCmd(a),
		newStoreCmd(a),
	)
	return root
}

// init loads the config file and lays explicitly set flags over it.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"output-dir":   &cfg.OutputDir,
		"format":       &cfg.Format,
		"theme":        &cfg.Theme,
		"variant":      &cfg.Variant,
		"template-dir": &cfg.TemplateDir,
		"store":        &cfg.StorePath,
		"log-level":    &cfg.LogLevel,
	} {
		if flags.Changed(name) {
			value, err := flags.GetString(name)
			if err != nil {
				return err
			}
			*dst = value
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New("modelcard", cfg.LogLevel, cmd.ErrOrStderr())
	a.logger.Debug("configuration loaded", "output_dir", cfg.OutputDir, "format", cfg.Format, "config", a.configPath)
	return nil
}

// toolkit builds a Toolkit from the effective configuration.
func (a *app) toolkit(opts ...modelcard.Option) (*modelcard.Toolkit, error) {
	base := []modelcard.Option{
		modelcard.WithOutputDir(a.cfg.OutputDir),
		modelcard.WithLogger(a.logger),
		modelcard.WithTheme(a.cfg.Theme, a.cfg.Variant),
	}
	if a.cfg.TemplateDir != "" {
		info, err := os.Stat(a.cfg.TemplateDir)
		if err != nil {
			return nil, fmt.Errorf("template dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("template dir %s is not a directory", a.cfg.TemplateDir)
		}
		base = append(base, modelcard.WithTemplateDir(a.cfg.TemplateDir))
	}
	return modelcard.New(append(base, opts...)...), nil
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or stdout when path is empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
