package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	modelcard "github.com/goliatone/go-modelcard"
	"github.com/goliatone/go-modelcard/pkg/card"
	"github.com/goliatone/go-modelcard/pkg/extract"
	"github.com/goliatone/go-modelcard/pkg/payload"
	"github.com/goliatone/go-modelcard/pkg/prompt"
	"github.com/goliatone/go-modelcard/pkg/render"
)

type scaffoldFlags struct {
	overrides   string
	interactive bool
	modelPath   string
	evalMetrics string
	include     []string
	exclude     []string
	datasetName string
	datasetLink string
	plots       []string
}

func newScaffoldCmd(a *app) *cobra.Command {
	var f scaffoldFlags
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Create the card asset and editable templates in the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			extractors, err := a.extractors(cmd, f)
			if err != nil {
				return err
			}
			tk, err := a.toolkit(modelcard.WithExtractors(extractors...))
			if err != nil {
				return err
			}

			var overrides []byte
			if f.overrides != "" {
				raw, err := readInput(cmd, f.overrides)
				if err != nil {
					return err
				}
				if overrides, err = payload.ToJSON(raw); err != nil {
					return fmt.Errorf("overrides %s: %w", f.overrides, err)
				}
			}

			c, err := tk.Scaffold(cmd.Context(), overrides)
			if err != nil {
				return err
			}
			if f.interactive {
				if err := fillInteractively(cmd, a.driver(), c); err != nil {
					return err
				}
				if err := tk.UpdateModelCard(c); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scaffolded %s\n", tk.OutputDir())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.overrides, "overrides", "", "JSON or YAML payload merged over extracted fields")
	flags.BoolVarP(&f.interactive, "interactive", "i", false, "Prompt for model details after extraction")
	flags.StringVar(&f.modelPath, "model-path", "", "Location of the model artifact")
	flags.StringVar(&f.evalMetrics, "eval-metrics", "", "Evaluation report (JSON or YAML) to read performance metrics from")
	flags.StringSliceVar(&f.include, "include", nil, "Metric name patterns to keep")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "Metric name patterns to drop")
	flags.StringVar(&f.datasetName, "dataset", "", "Name of a dataset to describe")
	flags.StringVar(&f.datasetLink, "dataset-link", "", "Link to the dataset")
	flags.StringArrayVar(&f.plots, "plot", nil, "Dataset plot as name=path.png (repeatable)")
	return cmd
}

// extractors combines the [extract] config section with scaffold flags.
// Flags win over the config file.
func (a *app) extractors(cmd *cobra.Command, f scaffoldFlags) ([]extract.Extractor, error) {
	cfg := a.cfg.Extract
	flags := cmd.Flags()
	if flags.Changed("model-path") {
		cfg.ModelPath = f.modelPath
	}
	if flags.Changed("eval-metrics") {
		cfg.EvalMetrics = f.evalMetrics
	}
	if flags.Changed("include") {
		cfg.Include = f.include
	}
	if flags.Changed("exclude") {
		cfg.Exclude = f.exclude
	}

	var out []extract.Extractor
	if cfg.ModelPath != "" {
		out = append(out, extract.ModelPath(cfg.ModelPath))
	}
	if cfg.EvalMetrics != "" {
		ex, err := extract.NewEvalMetrics(payload.SourceFromFile(cfg.EvalMetrics),
			extract.WithInclude(cfg.Include...), extract.WithExclude(cfg.Exclude...))
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	if f.datasetName != "" {
		stats := extract.DatasetStats{Name: f.datasetName, Link: f.datasetLink}
		for _, spec := range f.plots {
			name, path, ok := strings.Cut(spec, "=")
			if !ok || name == "" || path == "" {
				return nil, fmt.Errorf("plot %q: want name=path", spec)
			}
			stats.Plots = append(stats.Plots, extract.Plot{Name: name, Path: path})
		}
		out = append(out, stats)
	} else if len(f.plots) > 0 {
		return nil, fmt.Errorf("--plot needs --dataset")
	}
	a.logger.Debug("extractors configured", "count", len(out))
	return out, nil
}

func fillInteractively(cmd *cobra.Command, d prompt.Driver, c *card.ModelCard) error {
	ctx := cmd.Context()
	if err := d.Info(ctx, "Describe the model. Leave optional answers blank to skip them."); err != nil {
		return err
	}
	if err := prompt.FillModelDetails(ctx, d, c); err != nil {
		return err
	}
	more, err := d.Confirm(ctx, prompt.ConfirmConfig{Message: "Describe intended users, use cases and limitations?"})
	if err != nil || !more {
		return err
	}
	return prompt.FillConsiderations(ctx, d, c)
}

func newExportCmd(a *app) *cobra.Command {
	var input, file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the card asset into output_dir/model_cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tk, err := a.toolkit()
			if err != nil {
				return err
			}
			var c *card.ModelCard
			if input != "" {
				if c, err = readCard(cmd, tk, input); err != nil {
					return err
				}
			}
			if _, err := tk.Export(cmd.Context(), c, a.cfg.Format, file); err != nil {
				return err
			}
			if file == "" {
				file = "model_card" + exportExt(a.cfg.Format)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(tk.OutputDir(), modelcard.ModelCardsDir, file))
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Card to export instead of the asset; it replaces the asset")
	cmd.Flags().StringVar(&file, "file", "", "Output file name inside model_cards")
	return cmd
}

func exportExt(format string) string {
	if strings.EqualFold(format, render.FormatHTML) {
		return ".html"
	}
	return ".md"
}

func newPreviewCmd(a *app) *cobra.Command {
	var (
		input string
		width int
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the card as Markdown in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tk, err := a.toolkit()
			if err != nil {
				return err
			}
			var c *card.ModelCard
			if input != "" {
				c, err = readCard(cmd, tk, input)
			} else {
				c, err = tk.LoadModelCard()
			}
			if err != nil {
				return err
			}

			md, err := tk.Render(cmd.Context(), c, render.FormatMarkdown)
			if err != nil {
				return err
			}
			if raw {
				_, err = cmd.OutOrStdout().Write(md)
				return err
			}

			term, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			out, err := term.RenderBytes(md)
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Card to preview instead of the asset")
	cmd.Flags().IntVar(&width, "width", 80, "Word wrap width")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the Markdown source")
	return cmd
}
