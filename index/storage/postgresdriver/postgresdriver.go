// Package postgresdriver stores a symbol index in PostgreSQL via
// github.com/lib/pq. Grounded on the teacher's pkg/pdo/pgsql_driver.go
// connect/DSN/ping idiom; uses $N placeholders per lib/pq convention.
package postgresdriver

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/vellumlang/phpfront/index"
	"github.com/vellumlang/phpfront/index/storage"
	"github.com/vellumlang/phpfront/index/storage/sqlschema"
)

func init() {
	storage.Register(&Driver{})
}

type Driver struct{}

func (d *Driver) Name() string { return "pgsql" }

// Open expects config keys: host, port, user, password, dbname.
// sslmode defaults to "disable" when absent, mirroring the teacher's
// BuildPostgreSQLDSN default.
func (d *Driver) Open(config map[string]string) (storage.Store, error) {
	port := config["port"]
	if port == "" {
		port = "5432"
	}
	sslmode := config["sslmode"]
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config["host"], port, config["user"], config["password"], config["dbname"], sslmode)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgresdriver: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgresdriver: ping: %w", err)
	}
	return &Store{db: db}, nil
}

type Store struct {
	db *sql.DB
}

func (s *Store) Store(snapshot *index.Snapshot) error {
	return sqlschema.Store(s.db, sqlschema.Dollar, snapshot)
}

func (s *Store) Load() (*index.Snapshot, error) {
	return sqlschema.Load(s.db)
}

func (s *Store) Close() error { return s.db.Close() }
