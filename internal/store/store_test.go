package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/sectionforge/internal/document"
	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func backup(siteTitle string) *document.Backup {
	doc := document.New()
	doc.Header = document.SectionConfig{Type: "header", Settings: map[string]any{"siteTitle": siteTitle}}
	return document.NewBackup(doc, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
}

func TestSaveAndGet(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()

	snap, err := s.Save(ctx, "export", backup("Blog"))
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "export", snap.Label)
	assert.Equal(t, document.CurrentVersion, snap.Version)
	assert.Len(t, snap.Hash, 64)
	assert.Positive(t, snap.Size)

	got, stored, err := s.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, stored.ID)
	assert.Equal(t, snap.Hash, stored.Hash)
	assert.True(t, snap.ExportedAt.Equal(stored.ExportedAt))
	assert.Equal(t, "Blog", got.Document.Header.Settings["siteTitle"])
}

func TestSaveSkipsIdenticalBackup(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "a", backup("Blog"))
	require.NoError(t, err)
	second, err := s.Save(ctx, "b", backup("Blog"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	later := backup("Blog")
	later.ExportedAt = later.ExportedAt.Add(time.Hour)
	again, err := s.Save(ctx, "later", later)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	third, err := s.Save(ctx, "c", backup("Other"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestSaveRejectsInvalidBackup(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	_, err := s.Save(context.Background(), "bad", &document.Backup{Version: 1})

	var malformed *sferrors.MalformedDocumentError
	require.True(t, errors.As(err, &malformed), "got %v", err)
}

func TestLatestAndList(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()

	_, _, err := s.Latest(ctx)
	var notFound *sferrors.NotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)

	for _, title := range []string{"one", "two", "three"} {
		_, err := s.Save(ctx, title, backup(title))
		require.NoError(t, err)
	}

	latest, snap, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "three", snap.Label)
	assert.Equal(t, "three", latest.Document.Header.Settings["siteTitle"])

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, []string{"three", "two"}, []string{limited[0].Label, limited[1].Label})
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	_, _, err := s.Get(context.Background(), "nope")

	var notFound *sferrors.NotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
}

func TestPrune(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()
	for _, title := range []string{"one", "two", "three", "four"} {
		_, err := s.Save(ctx, title, backup(title))
		require.NoError(t, err)
	}

	removed, err := s.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "four", list[0].Label)
}

func TestReopenKeepsHistory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snapshots.db")
	s, err := Open(path)
	require.NoError(t, err)
	snap, err := s.Save(context.Background(), "kept", backup("Blog"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, stored, err := s.Get(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", stored.Label)
}
