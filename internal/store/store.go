// Package store persists extracted symbol records in SQLite, so large
// scans can be queried without re-reading the JSON report.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"symscan/internal/scan"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS symbols (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type TEXT NOT NULL,
    name TEXT NOT NULL,
    params TEXT NOT NULL DEFAULT '',
    doc TEXT NOT NULL DEFAULT '',
    source_file TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(source_file);
CREATE INDEX IF NOT EXISTS idx_symbols_type ON symbols(type);
`

// Store is the SQLite-backed symbol database. There is deliberately no
// uniqueness constraint: duplicate records (same name in two files, or
// twice in one file) are preserved as separate rows, matching the JSON
// report.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the symbol database at the given path.
func Open(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func initSchema(db *sql.DB) error {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Fresh database or missing table, create schema
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("setting schema version: %w", err)
		}
		return nil
	}

	if version < schemaVersion {
		// Future: add migration logic here
		if _, err := db.Exec("UPDATE schema_version SET version = ?", schemaVersion); err != nil {
			return fmt.Errorf("updating schema version: %w", err)
		}
	}

	return nil
}

// Replace clears the database and bulk-inserts the given records in
// order, in a single transaction. The whole run is a one-shot scan, so
// there is no per-file incremental path.
func (s *Store) Replace(records []scan.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM symbols"); err != nil {
		return fmt.Errorf("clearing symbols: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO symbols (type, name, params, doc, source_file) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Type, r.Name, r.Params, r.Doc, r.SourceFile); err != nil {
			return fmt.Errorf("inserting %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// FindByName searches for symbols by name, partial matches included.
// Exact matches rank first, then prefix matches, then the rest.
func (s *Store) FindByName(name string, limit int) ([]scan.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT type, name, params, doc, source_file
		 FROM symbols
		 WHERE name LIKE ?
		 ORDER BY
			CASE WHEN name = ? THEN 0
				 WHEN name LIKE ? THEN 1
				 ELSE 2 END,
			name, source_file, id
		 LIMIT ?`,
		"%"+name+"%", name, name+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("querying symbols: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// ListByFile returns all records extracted from one source file, in
// insertion order.
func (s *Store) ListByFile(sourceFile string) ([]scan.Record, error) {
	rows, err := s.db.Query(
		`SELECT type, name, params, doc, source_file
		 FROM symbols
		 WHERE source_file = ?
		 ORDER BY id`, sourceFile)
	if err != nil {
		return nil, fmt.Errorf("querying symbols: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Stats returns symbol and distinct file counts.
func (s *Store) Stats() (symbolCount int, fileCount int, err error) {
	if err := s.db.QueryRow("SELECT COUNT(*) FROM symbols").Scan(&symbolCount); err != nil {
		return 0, 0, err
	}
	if err := s.db.QueryRow("SELECT COUNT(DISTINCT source_file) FROM symbols").Scan(&fileCount); err != nil {
		return 0, 0, err
	}
	return symbolCount, fileCount, nil
}

func scanRows(rows *sql.Rows) ([]scan.Record, error) {
	var records []scan.Record
	for rows.Next() {
		var r scan.Record
		if err := rows.Scan(&r.Type, &r.Name, &r.Params, &r.Doc, &r.SourceFile); err != nil {
			return nil, fmt.Errorf("scanning symbol: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
