// Package sqlitedriver stores a symbol index in a SQLite file via
// modernc.org/sqlite + database/sql. Grounded on the teacher's
// pkg/pdo/sqlite_driver.go (sql.Open("sqlite", dsn), Ping, wrapped
// *sql.DB), repurposed from a live PDO connection to index persistence.
package sqlitedriver

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vellumlang/phpfront/index"
	"github.com/vellumlang/phpfront/index/storage"
	"github.com/vellumlang/phpfront/index/storage/sqlschema"
)

func init() {
	storage.Register(&Driver{})
}

type Driver struct{}

func (d *Driver) Name() string { return "sqlite" }

func (d *Driver) Open(config map[string]string) (storage.Store, error) {
	path := config["path"]
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitedriver: open: %w", err)
	}
	// A second pooled connection to ":memory:" (or any other private,
	// non-shared-cache DSN) sees an empty database, so cap the pool at
	// one connection to keep every query against the same in-memory state.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitedriver: ping: %w", err)
	}
	return &Store{db: db}, nil
}

type Store struct {
	db *sql.DB
}

func (s *Store) Store(snapshot *index.Snapshot) error {
	return sqlschema.Store(s.db, sqlschema.QuestionMark, snapshot)
}

func (s *Store) Load() (*index.Snapshot, error) {
	return sqlschema.Load(s.db)
}

func (s *Store) Close() error { return s.db.Close() }
