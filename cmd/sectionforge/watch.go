package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/sectionforge/internal/logger"
)

const watchDebounce = 200 * time.Millisecond

func newWatchCmd(root *rootFlags) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-export whenever the document, content or templates change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.tier, "tier", "", "Export as this tier (free or premium); defaults to the project tier")

	return cmd
}

func runWatch(cmd *cobra.Command, root *rootFlags, opts *exportOptions) error {
	app, err := newAppContext(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	log := app.Logger.WithComponent("watch")
	rebuild := func() {
		if err := runExport(ctx, app, opts, out); err != nil {
			log.Error(err, "export failed")
		}
	}
	rebuild()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}
	defer watcher.Close()

	targets := newWatchTargets(app.Config.Document, app.Config.Content, app.Config.Templates)
	for _, dir := range targets.dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	fmt.Fprintln(out, "Watching for changes. Press Ctrl+C to stop.")
	watchLoop(ctx, watcher.Events, watcher.Errors, targets.relevant, watchDebounce, log, rebuild)
	return nil
}

// watchTargets is the set of files and template directories that trigger a
// rebuild.
type watchTargets struct {
	files     map[string]struct{}
	templates string
}

func newWatchTargets(document, content, templates string) watchTargets {
	t := watchTargets{files: map[string]struct{}{}}
	for _, f := range []string{document, content} {
		if f != "" {
			t.files[filepath.Clean(f)] = struct{}{}
		}
	}
	if templates != "" {
		t.templates = filepath.Clean(templates)
	}
	return t
}

// dirs lists what to register with the watcher. Files are watched through
// their directory so editors that replace files by rename keep working.
func (t watchTargets) dirs() []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(dir string) {
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		out = append(out, dir)
	}
	for f := range t.files {
		add(filepath.Dir(f))
	}
	if t.templates != "" {
		_ = filepath.WalkDir(t.templates, func(path string, d fs.DirEntry, err error) error {
			if err == nil && d.IsDir() {
				add(path)
			}
			return nil
		})
	}
	return out
}

func (t watchTargets) relevant(name string) bool {
	name = filepath.Clean(name)
	if _, ok := t.files[name]; ok {
		return true
	}
	if t.templates == "" || filepath.Ext(name) != ".html" {
		return false
	}
	rel, err := filepath.Rel(t.templates, name)
	return err == nil && !strings.HasPrefix(rel, "..")
}

// watchLoop calls rebuild once per burst of relevant events, delay after the
// last one, until ctx is done or the event channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, relevant func(string) bool, delay time.Duration, log *logger.Logger, rebuild func()) {
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if !relevant(event.Name) {
				continue
			}
			log.WithFields(map[string]any{"file": event.Name, "op": event.Op.String()}).Debug("change detected")
			pending = time.After(delay)
		case err, ok := <-errs:
			if !ok {
				return
			}
			log.Error(err, "watcher error")
		case <-pending:
			pending = nil
			rebuild()
		}
	}
}
