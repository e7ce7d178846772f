package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS contents (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	subject      TEXT NOT NULL,
	slug         TEXT NOT NULL,
	subject_slug TEXT NOT NULL,
	type         TEXT NOT NULL DEFAULT 'CODE',
	markup       TEXT NOT NULL DEFAULT '',
	styles       TEXT NOT NULL DEFAULT '',
	script       TEXT NOT NULL DEFAULT '',
	file_url     TEXT NOT NULL DEFAULT '',
	file_name    TEXT NOT NULL DEFAULT '',
	mime_type    TEXT NOT NULL DEFAULT '',
	page_count   INTEGER NOT NULL DEFAULT 0,
	published    INTEGER NOT NULL DEFAULT 1,
	views        INTEGER NOT NULL DEFAULT 0,
	owner_id     TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL,
	UNIQUE (subject_slug, slug)
);
CREATE INDEX IF NOT EXISTS contents_owner ON contents (owner_id, created_at);
CREATE INDEX IF NOT EXISTS contents_published ON contents (published, subject_slug, created_at);

CREATE TABLE IF NOT EXISTS assets (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	name       TEXT NOT NULL,
	slug       TEXT NOT NULL,
	url        TEXT NOT NULL,
	mime_type  TEXT NOT NULL DEFAULT '',
	size       INTEGER NOT NULL DEFAULT 0,
	folder     TEXT NOT NULL DEFAULT 'general',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS assets_owner ON assets (owner_id, created_at);
`

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQLite content store. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

type config struct {
	busyTimeout int
	mkdirAll    bool
	now         func() time.Time
}

// Option customizes Open.
type Option func(*config)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// WithClock replaces time.Now for timestamps and duplicate-slug suffixes.
func WithClock(now func() time.Time) Option { return func(c *config) { c.now = now } }

// Open opens the database at path, applies pragmas and creates the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	cfg := config{busyTimeout: 10_000, now: time.Now}
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	// Each connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	return &Store{db: db, now: cfg.now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
