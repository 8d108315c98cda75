package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/alexisbeaulieu97/sectionforge/internal/document"
	"github.com/alexisbeaulieu97/sectionforge/internal/sections"
	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

// workspaceSource records where a loaded document came from.
type workspaceSource string

const (
	sourceFile     workspaceSource = "file"
	sourceSnapshot workspaceSource = "snapshot"
	sourceSeed     workspaceSource = "seed"
)

type workspace struct {
	Document   *document.Document
	Source     workspaceSource
	SnapshotID string
	// LoadErr is why the document file was not used, when it was not.
	LoadErr   error
	Renames   []document.Rename
	Reconcile document.ReconcileReport
}

// Changed reports whether the loaded document differs from the file on disk.
func (w *workspace) Changed() bool {
	return w.Source != sourceFile || len(w.Renames) > 0 || w.Reconcile.Changed()
}

// loadWorkspace reads the document file, migrates and reconciles it. A
// missing file starts from the page-template defaults; a malformed one falls
// back to the newest stored snapshot.
func (a *AppContext) loadWorkspace(ctx context.Context) (*workspace, error) {
	log := a.Logger.WithComponent("document").WithFields(map[string]any{"path": a.Config.Document})
	ws := &workspace{Source: sourceFile}

	b, err := document.Load(a.Config.Document)
	switch {
	case err == nil:
		ws.Document = b.Document
	case errors.Is(err, fs.ErrNotExist):
		log.Info("document file not found, starting from defaults")
		ws.Document = document.Seed(a.Registry, sections.PageTemplates())
		ws.Source = sourceSeed
		ws.LoadErr = err
	default:
		var malformed *sferrors.MalformedDocumentError
		if !errors.As(err, &malformed) {
			return nil, err
		}
		snapshot, snap, snapErr := a.Store.Latest(ctx)
		if snapErr != nil {
			return nil, newCommandError("load document", a.Config.Document, err, "Fix the file or restore one with 'sectionforge snapshot restore <id>'.")
		}
		log.WithFields(map[string]any{"snapshot": snap.ID, "reason": malformed.Reason}).
			Warn("document file is malformed, using last good snapshot")
		ws.Document = snapshot.Document
		ws.Source = sourceSnapshot
		ws.SnapshotID = snap.ID
		ws.LoadErr = err
	}

	ws.Renames = document.MigrateLegacyIDs(ws.Document, log)
	ws.Reconcile = document.Reconcile(ws.Document, a.Registry, sections.PageTemplates(), log)
	return ws, nil
}

// saveWorkspace writes doc to the document file and records a snapshot.
func (a *AppContext) saveWorkspace(ctx context.Context, doc *document.Document, label string) error {
	b := document.NewBackup(doc, time.Now())
	if err := document.Save(a.Config.Document, b); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return a.snapshot(ctx, doc, label)
}

// snapshot records doc in the snapshot store without touching the file.
func (a *AppContext) snapshot(ctx context.Context, doc *document.Document, label string) error {
	snap, err := a.Store.Save(ctx, label, document.NewBackup(doc, time.Now()))
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	a.Logger.WithFields(map[string]any{"snapshot": snap.ID, "label": label}).Debug("snapshot stored")
	return nil
}
