package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/term"

	"github.com/alexisbeaulieu97/sectionforge/internal/config"
	"github.com/alexisbeaulieu97/sectionforge/internal/export"
	"github.com/alexisbeaulieu97/sectionforge/internal/gate"
	"github.com/alexisbeaulieu97/sectionforge/internal/logger"
	"github.com/alexisbeaulieu97/sectionforge/internal/registry"
	"github.com/alexisbeaulieu97/sectionforge/internal/render"
	"github.com/alexisbeaulieu97/sectionforge/internal/sections"
	"github.com/alexisbeaulieu97/sectionforge/internal/store"
)

// AppContext bundles the long-lived services a command works with.
type AppContext struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *registry.Registry
	Pipeline *export.Pipeline
	Store    *store.Store
}

func newAppContext(flags *rootFlags, stderr io.Writer) (*AppContext, error) {
	if err := validateConfigPath(flags.configPath); err != nil {
		return nil, err
	}
	cfg, err := config.ParseConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.Settings.LogLevel, flags.verbose, stderr)
	if err != nil {
		return nil, err
	}

	g, err := cfg.FeatureGate()
	if err != nil {
		return nil, err
	}
	reg, err := newRegistry(g, log)
	if err != nil {
		return nil, err
	}

	fsys, err := templateFS(cfg.Templates)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Snapshots)
	if err != nil {
		return nil, newCommandError("open snapshot store", cfg.Snapshots, err, "Check that the snapshot directory is writable.")
	}

	pipeline := export.New(reg, cfg.ContentSource(), fsys, export.Options{
		SiteName: cfg.Name,
		Parallel: cfg.Settings.Parallel,
	}, log)

	return &AppContext{
		Config:   cfg,
		Logger:   log,
		Registry: reg,
		Pipeline: pipeline,
		Store:    st,
	}, nil
}

// Close releases the snapshot store.
func (a *AppContext) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

func newLogger(level string, verbose bool, w io.Writer) (*logger.Logger, error) {
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, HumanReadable: isTerminal(w), Writer: w})
}

func newRegistry(g *gate.FeatureGate, log *logger.Logger) (*registry.Registry, error) {
	reg, err := registry.NewWithDefinitions(g, log.WithComponent("registry"), sections.All()...)
	if err != nil {
		return nil, fmt.Errorf("register built-in sections: %w", err)
	}
	return reg, nil
}

// templateFS layers an on-disk override directory over the embedded templates.
func templateFS(dir string) (fs.FS, error) {
	if dir == "" {
		return sections.Templates(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates path %s is not a directory", dir)
	}
	return render.NewOverlay(os.DirFS(dir), sections.Templates()), nil
}

func isTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
