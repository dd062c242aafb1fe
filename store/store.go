// Package store is the document-store collaborator of the validation engine:
// a thin SQLite-backed collection layer that validates every document before
// persisting it and surfaces the engine's issues unchanged. No validation
// logic lives here.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	j "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mongokit "github.com/ajessup/mongokit"
)

// ErrNotFound is returned when a document id does not exist in a collection.
var ErrNotFound = errors.New("store: document not found")

// Config contains configuration for the SQLite backend.
type Config struct {
	// Path is the database file path. Use ":memory:" for an in-memory store.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:         "data/documents.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// Store owns the SQLite connection shared by all collections.
type Store struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger
}

// Open opens (or creates) the backing database and initializes its schema.
func Open(config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}
	logger := slog.Default().With("component", "mongokit.store")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", config.Path, err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &Store{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *Store) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("store: enable wal: %w", err)
		}
	}
	if s.config.BusyTimeout > 0 {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("store: set busy timeout: %w", err)
		}
	}
	const schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection  TEXT NOT NULL,
    id          TEXT NOT NULL,
    body        TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL,
    PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// Close closes the backing database.
func (s *Store) Close() error { return s.db.Close() }

// Collection binds a named collection to a compiled document type. Every
// Save goes through doc.Validate first.
func (s *Store) Collection(name string, doc *mongokit.Document) *Collection {
	return &Collection{
		store:  s,
		name:   name,
		doc:    doc,
		logger: s.logger.With("collection", name),
	}
}

// Collection is a validated view over one document collection.
type Collection struct {
	store  *Store
	name   string
	doc    *mongokit.Document
	logger *slog.Logger
}

// Save validates body and persists it, returning the document id. Validation
// runs in collect mode so a rejected save reports every defect at once; the
// returned error is the engine's Issues untouched. The id comes from a
// string "_id" field when present, otherwise a fresh UUID is assigned and
// written back into body. "_id" is store bookkeeping, not part of the
// declared structure, so it is lifted out before the pass runs.
func (c *Collection) Save(ctx context.Context, body map[string]any) (string, error) {
	id, _ := body["_id"].(string)
	delete(body, "_id")

	if err := c.doc.Validate(ctx, body, mongokit.Collect()); err != nil {
		if id != "" {
			body["_id"] = id
		}
		c.logger.Debug("save rejected", "error", err)
		return "", err
	}

	if id == "" {
		id = uuid.New().String()
	}
	body["_id"] = id

	raw, err := j.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("store: marshal document: %w", err)
	}
	now := time.Now().UTC()
	_, err = c.store.db.ExecContext(ctx, `
INSERT INTO documents (collection, id, body, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(collection, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		c.name, id, string(raw), now, now)
	if err != nil {
		return "", fmt.Errorf("store: save %s/%s: %w", c.name, id, err)
	}
	c.logger.Debug("document saved", "id", id)
	return id, nil
}

// Get loads one document by id.
func (c *Collection) Get(ctx context.Context, id string) (map[string]any, error) {
	var raw string
	err := c.store.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`, c.name, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s/%s: %w", c.name, id, err)
	}
	return decodeBody(raw)
}

// Find returns up to limit documents from the collection, oldest first.
// A limit of 0 means no limit.
func (c *Collection) Find(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.store.db.QueryContext(ctx, `
SELECT body FROM documents WHERE collection = ?
ORDER BY created_at, id LIMIT ? OFFSET ?`, c.name, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("store: find %s: %w", c.name, err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("store: scan %s: %w", c.name, err)
		}
		doc, err := decodeBody(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate %s: %w", c.name, err)
	}
	return out, nil
}

// Delete removes one document by id.
func (c *Collection) Delete(ctx context.Context, id string) error {
	res, err := c.store.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, c.name, id)
	if err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", c.name, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count reports the number of documents in the collection.
func (c *Collection) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ?`, c.name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count %s: %w", c.name, err)
	}
	return n, nil
}

func decodeBody(raw string) (map[string]any, error) {
	doc, err := mongokit.JSONBytes([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("store: decode document: %w", err)
	}
	return doc, nil
}
