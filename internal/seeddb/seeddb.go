// Package seeddb provides SQLite-backed reference collaborators for the
// fixture service.
//
// The fixture engine treats collaborators as opaque; this package supplies
// real ones that persist every created record to a seed database. It
// serves two purposes: an executable reference for writing collaborators
// against an actual backing system, and an integration surface for
// exercising the orchestration chain end to end without mocks.
package seeddb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a SQLite seed database holding the entities fixture chains
// create. WAL mode keeps reads available while a chain writes.
type DB struct {
	db *sql.DB
}

// Entity is one persisted record. ParentID is empty for root entities.
type Entity struct {
	ID       string
	Kind     string
	ParentID string
}

// Open creates or opens a seed database at the given path. Use ":memory:"
// for throwaway databases in tests.
//
// The connection is configured with WAL journaling, NORMAL synchronous
// mode, a 5-second busy timeout, and foreign key enforcement. SQLite
// allows one writer at a time, so the pool is pinned to a single
// connection (this also keeps ":memory:" databases from silently
// splitting into one database per connection).
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open seed database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to seed database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply seed schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Insert persists an entity. A duplicate id or a dangling parent
// reference fails with the SQLite constraint error.
func (d *DB) Insert(ctx context.Context, e Entity) error {
	parent := sql.NullString{String: e.ParentID, Valid: e.ParentID != ""}
	_, err := d.db.ExecContext(ctx,
		"INSERT INTO entities (id, kind, parent_id) VALUES (?, ?, ?)",
		e.ID, e.Kind, parent)
	if err != nil {
		return fmt.Errorf("insert entity %s: %w", e.ID, err)
	}
	return nil
}

// Get fetches an entity by id.
func (d *DB) Get(ctx context.Context, id string) (Entity, error) {
	var e Entity
	var parent sql.NullString
	err := d.db.QueryRowContext(ctx,
		"SELECT id, kind, parent_id FROM entities WHERE id = ?", id).
		Scan(&e.ID, &e.Kind, &parent)
	if errors.Is(err, sql.ErrNoRows) {
		return Entity{}, fmt.Errorf("entity %s not found", id)
	}
	if err != nil {
		return Entity{}, fmt.Errorf("get entity %s: %w", id, err)
	}
	e.ParentID = parent.String
	return e, nil
}

// Delete removes an entity by id. Deleting a parent before its children
// fails the foreign key check.
func (d *DB) Delete(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, "DELETE FROM entities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entity %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entity %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("entity %s not found", id)
	}
	return nil
}

// Count returns the number of persisted entities.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities").Scan(&n); err != nil {
		return 0, fmt.Errorf("count entities: %w", err)
	}
	return n, nil
}
