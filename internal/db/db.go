package db

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	conn *sql.DB
	Path string
}

const schema = `
CREATE TABLE IF NOT EXISTS networks (
	name        TEXT PRIMARY KEY,
	weighted    INTEGER NOT NULL DEFAULT 0,
	source      TEXT,
	imported_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	network TEXT NOT NULL REFERENCES networks(name) ON DELETE CASCADE,
	id      TEXT NOT NULL,
	label   TEXT,
	PRIMARY KEY (network, id)
);
CREATE TABLE IF NOT EXISTS edges (
	network   TEXT NOT NULL REFERENCES networks(name) ON DELETE CASCADE,
	source_id TEXT NOT NULL,
	target_id TEXT NOT NULL,
	weight    REAL
);
CREATE INDEX IF NOT EXISTS idx_edges_network ON edges(network);
CREATE TABLE IF NOT EXISTS node_metadata (
	node_id TEXT NOT NULL,
	field   TEXT NOT NULL,
	value   TEXT NOT NULL,
	PRIMARY KEY (node_id, field)
);
`

// OpenDB opens a SQLite database with WAL mode and foreign keys enabled
// and creates the schema if it is missing.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "setting WAL mode")
	}

	// Cascading network deletes rely on this
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "enabling foreign keys")
	}

	d := &DB{conn: conn, Path: path}
	if err := d.Migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

// Migrate creates missing tables and indexes
func (d *DB) Migrate() error {
	if _, err := d.conn.Exec(schema); err != nil {
		return errors.Wrap(err, "creating schema")
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn returns the underlying sql.DB for custom queries
func (d *DB) Conn() *sql.DB {
	return d.conn
}
