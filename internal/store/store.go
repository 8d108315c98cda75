// Package store keeps a history of workspace backups in SQLite so a malformed
// document file can be replaced by the last good copy.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alexisbeaulieu97/sectionforge/internal/document"
	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

// Snapshot describes one stored backup.
type Snapshot struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	CreatedAt  time.Time `json:"createdAt"`
	Hash       string    `json:"sha256"`
	Size       int       `json:"size"`
}

// Store wraps the SQLite connection.
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens (or creates) the snapshot database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time keeps SQLite from returning SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			version INTEGER NOT NULL,
			exported_at TEXT NOT NULL,
			created_at TEXT NOT NULL,
			sha256 TEXT NOT NULL,
			body TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_sha256 ON snapshots(sha256)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

const snapshotColumns = `id, label, version, exported_at, created_at, sha256, length(CAST(body AS BLOB))`

// Save stores b. A backup whose document matches the newest snapshot is not
// stored again; the existing snapshot is returned.
func (s *Store) Save(ctx context.Context, label string, b *document.Backup) (Snapshot, error) {
	if err := document.Check(b); err != nil {
		return Snapshot{}, err
	}
	body, err := document.Marshal(b)
	if err != nil {
		return Snapshot{}, err
	}
	hash, err := documentHash(b.Document)
	if err != nil {
		return Snapshot{}, err
	}

	latest, err := s.latest(ctx)
	if err != nil && !isNotFound(err) {
		return Snapshot{}, err
	}
	if err == nil && latest.Hash == hash {
		return latest, nil
	}

	snap := Snapshot{
		ID:         uuid.New().String(),
		Label:      label,
		Version:    b.Version,
		ExportedAt: b.ExportedAt.UTC(),
		CreatedAt:  s.now().UTC(),
		Hash:       hash,
		Size:       len(body),
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO snapshots (id, label, version, exported_at, created_at, sha256, body) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Label, snap.Version, formatTime(snap.ExportedAt), formatTime(snap.CreatedAt), snap.Hash, string(body),
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

// List returns up to limit snapshots, newest first. A limit below 1 lists all.
func (s *Store) List(ctx context.Context, limit int) ([]Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots ORDER BY rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a stored backup by id.
func (s *Store) Get(ctx context.Context, id string) (*document.Backup, Snapshot, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+snapshotColumns+`, body FROM snapshots WHERE id = ?`, id)
	return s.load(row, id)
}

// Latest returns the newest stored backup.
func (s *Store) Latest(ctx context.Context) (*document.Backup, Snapshot, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+snapshotColumns+`, body FROM snapshots ORDER BY rowid DESC LIMIT 1`)
	return s.load(row, "latest")
}

// Prune deletes all but the newest keep snapshots and returns how many went.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM snapshots WHERE rowid NOT IN (SELECT rowid FROM snapshots ORDER BY rowid DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Store) latest(ctx context.Context) (Snapshot, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots ORDER BY rowid DESC LIMIT 1`)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, sferrors.NewNotFoundError("snapshot", "latest")
	}
	return snap, err
}

func (s *Store) load(row *sql.Row, id string) (*document.Backup, Snapshot, error) {
	var (
		snap       Snapshot
		exportedAt string
		createdAt  string
		body       string
	)
	err := row.Scan(&snap.ID, &snap.Label, &snap.Version, &exportedAt, &createdAt, &snap.Hash, &snap.Size, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Snapshot{}, sferrors.NewNotFoundError("snapshot", id)
	}
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("load snapshot %s: %w", id, err)
	}
	if err := parseTimes(&snap, exportedAt, createdAt); err != nil {
		return nil, Snapshot{}, err
	}

	b, err := document.Parse([]byte(body))
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	return b, snap, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (Snapshot, error) {
	var (
		snap       Snapshot
		exportedAt string
		createdAt  string
	)
	if err := sc.Scan(&snap.ID, &snap.Label, &snap.Version, &exportedAt, &createdAt, &snap.Hash, &snap.Size); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := parseTimes(&snap, exportedAt, createdAt); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func parseTimes(snap *Snapshot, exportedAt, createdAt string) error {
	var err error
	if snap.ExportedAt, err = time.Parse(time.RFC3339Nano, exportedAt); err != nil {
		return fmt.Errorf("snapshot %s: exported_at: %w", snap.ID, err)
	}
	if snap.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return fmt.Errorf("snapshot %s: created_at: %w", snap.ID, err)
	}
	return nil
}

// documentHash ignores the export time so re-saving an unchanged document
// is a no-op.
func documentHash(doc *document.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func isNotFound(err error) bool {
	var notFound *sferrors.NotFoundError
	return errors.As(err, &notFound)
}
