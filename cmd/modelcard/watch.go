package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	modelcard "github.com/goliatone/go-modelcard"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		file     string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch INPUT",
		Short: "Re-export whenever the input payload or the templates change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := a.toolkit()
			if err != nil {
				return err
			}
			w := &watcher{
				app:      a,
				cmd:      cmd,
				tk:       tk,
				input:    args[0],
				file:     file,
				debounce: debounce,
			}
			return w.run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Output file name inside model_cards")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Quiet period before re-exporting")
	return cmd
}

type watcher struct {
	app      *app
	cmd      *cobra.Command
	tk       *modelcard.Toolkit
	input    string
	file     string
	debounce time.Duration
}

// run exports once, then again after every burst of changes, until ctx is
// cancelled. Export failures are reported and watching continues.
func (w *watcher) run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fsw.Close()

	// Watch the parent directory so editors that replace the file on save
	// keep being tracked.
	input, err := filepath.Abs(w.input)
	if err != nil {
		return err
	}
	dirs := []string{filepath.Dir(input)}
	var templates string
	if dir := w.tk.RenderTemplateDir(); dir != "" {
		if templates, err = filepath.Abs(dir); err != nil {
			return err
		}
		if err := filepath.WalkDir(templates, func(path string, d os.DirEntry, err error) error {
			if err == nil && d.IsDir() {
				dirs = append(dirs, path)
			}
			return err
		}); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.export(ctx)
	fmt.Fprintf(w.cmd.ErrOrStderr(), "watching %s (ctrl+c to stop)\n", w.input)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			name, _ := filepath.Abs(event.Name)
			if name != input && !within(templates, name) {
				continue
			}
			w.app.logger.Trace("change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.app.logger.Warn("watch error", "error", err)
		case <-timer.C:
			w.export(ctx)
		}
	}
}

func (w *watcher) export(ctx context.Context) {
	c, err := readCard(w.cmd, w.tk, w.input)
	if err == nil {
		_, err = w.tk.Export(ctx, c, w.app.cfg.Format, w.file)
	}
	if err != nil {
		fmt.Fprintf(w.cmd.ErrOrStderr(), "export failed: %v\n", err)
		return
	}
	fmt.Fprintf(w.cmd.OutOrStdout(), "exported %s at %s\n", w.input, time.Now().Format(time.TimeOnly))
}

func within(dir, path string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
