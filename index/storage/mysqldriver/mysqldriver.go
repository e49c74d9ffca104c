// Package mysqldriver stores a symbol index in MySQL via
// github.com/go-sql-driver/mysql. Grounded on the teacher's
// pkg/pdo/mysql_driver.go connect/DSN/ping idiom.
package mysqldriver

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/vellumlang/phpfront/index"
	"github.com/vellumlang/phpfront/index/storage"
	"github.com/vellumlang/phpfront/index/storage/sqlschema"
)

func init() {
	storage.Register(&Driver{})
}

type Driver struct{}

func (d *Driver) Name() string { return "mysql" }

// Open expects config keys: host, port, user, password, dbname. Port
// defaults to 3306 if empty, mirroring the teacher's DSN defaulting.
func (d *Driver) Open(config map[string]string) (storage.Store, error) {
	port := config["port"]
	if port == "" {
		port = "3306"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", config["user"], config["password"], config["host"], port, config["dbname"])
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysqldriver: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysqldriver: ping: %w", err)
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
