package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/courtside/volleymetrics/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a sql.DB for the volleymetrics store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path, applies
// the schema, and verifies the stored document version. A database written
// by an incompatible schema version is rejected rather than migrated.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.checkVersion(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) checkVersion() error {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&value)
	if err == sql.ErrNoRows {
		_, err = db.conn.Exec(`INSERT INTO meta(key, value) VALUES ('version', ?)`,
			strconv.Itoa(model.StoreVersion))
		return err
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	v, err := strconv.Atoi(value)
	if err != nil || v != model.StoreVersion {
		return fmt.Errorf("unsupported store version %q (want %d)", value, model.StoreVersion)
	}
	return nil
}
