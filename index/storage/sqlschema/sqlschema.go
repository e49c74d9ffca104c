// Package sqlschema is the schema and row (de)serialization shared by
// the sqlite/mysql/postgres storage drivers: a files table plus
// functions/classes tables whose signature/member payload is too
// richly nested (types, params, shapes) to normalize usefully, so it
// rides along as a gob-encoded blob column next to the queryable
// identity columns (name, namespace, file).
package sqlschema

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"

	"github.com/vellumlang/phpfront/bytestring"
	"github.com/vellumlang/phpfront/index"
)

// Placeholder renders the nth (1-based) bind placeholder for a dialect:
// "?" for sqlite/mysql, "$1"/"$2"/... for postgres.
type Placeholder func(n int) string

func QuestionMark(int) string { return "?" }

func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

const createTables = `
CREATE TABLE IF NOT EXISTS phpfront_files (
	id   INTEGER PRIMARY KEY,
	path TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS phpfront_functions (
	name TEXT PRIMARY KEY,
	namespace TEXT NOT NULL,
	file_id INTEGER NOT NULL,
	payload BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS phpfront_classes (
	name TEXT PRIMARY KEY,
	namespace TEXT NOT NULL,
	file_id INTEGER NOT NULL,
	payload BLOB NOT NULL
);
`

// EnsureSchema creates the three tables if they don't already exist.
// db.Exec is split into three multi-statement-unfriendly drivers'
// lowest common denominator: one Exec per statement.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range splitStatements(createTables) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlschema: create tables: %w", err)
		}
	}
	return nil
}

func splitStatements(sqlText string) []string {
	var out []string
	var cur bytes.Buffer
	for _, r := range sqlText {
		cur.WriteRune(r)
		if r == ';' {
			s := bytes.TrimSpace(cur.Bytes())
			if len(s) > 0 {
				out = append(out, string(s))
			}
			cur.Reset()
		}
	}
	if s := bytes.TrimSpace(cur.Bytes()); len(s) > 0 {
		out = append(out, string(s))
	}
	return out
}

// Store writes a full snapshot, replacing whatever rows already exist.
func Store(db *sql.DB, ph Placeholder, snapshot *index.Snapshot) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("sqlschema: begin: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM phpfront_files", "DELETE FROM phpfront_functions", "DELETE FROM phpfront_classes"} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("sqlschema: clear: %w", err)
		}
	}

	insertFile := fmt.Sprintf("INSERT INTO phpfront_files (id, path) VALUES (%s, %s)", ph(1), ph(2))
	for id, path := range snapshot.Files {
		if _, err := tx.Exec(insertFile, int64(id), path); err != nil {
			return fmt.Errorf("sqlschema: insert file: %w", err)
		}
	}

	insertFn := fmt.Sprintf("INSERT INTO phpfront_functions (name, namespace, file_id, payload) VALUES (%s, %s, %s, %s)", ph(1), ph(2), ph(3), ph(4))
	for name, fn := range snapshot.Functions {
		blob, err := encode(fn)
		if err != nil {
			return fmt.Errorf("sqlschema: encode function %s: %w", name, err)
		}
		if _, err := tx.Exec(insertFn, name, fn.Namespace, int64(fn.File), blob); err != nil {
			return fmt.Errorf("sqlschema: insert function: %w", err)
		}
	}

	insertCls := fmt.Sprintf("INSERT INTO phpfront_classes (name, namespace, file_id, payload) VALUES (%s, %s, %s, %s)", ph(1), ph(2), ph(3), ph(4))
	for name, cl := range snapshot.Classes {
		blob, err := encode(cl)
		if err != nil {
			return fmt.Errorf("sqlschema: encode class %s: %w", name, err)
		}
		if _, err := tx.Exec(insertCls, name, cl.Namespace, int64(cl.File), blob); err != nil {
			return fmt.Errorf("sqlschema: insert class: %w", err)
		}
	}

	return tx.Commit()
}

// Load reads a full snapshot back out of the three tables.
func Load(db *sql.DB) (*index.Snapshot, error) {
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	snapshot := &index.Snapshot{
		Files:     make(map[bytestring.FileID]string),
		Functions: make(map[string]*index.Function),
		Classes:   make(map[string]*index.ClassLike),
	}

	fileRows, err := db.Query("SELECT id, path FROM phpfront_files")
	if err != nil {
		return nil, fmt.Errorf("sqlschema: select files: %w", err)
	}
	defer fileRows.Close()
	for fileRows.Next() {
		var id int64
		var path string
		if err := fileRows.Scan(&id, &path); err != nil {
			return nil, fmt.Errorf("sqlschema: scan file: %w", err)
		}
		snapshot.Files[bytestring.FileID(id)] = path
	}

	fnRows, err := db.Query("SELECT name, payload FROM phpfront_functions")
	if err != nil {
		return nil, fmt.Errorf("sqlschema: select functions: %w", err)
	}
	defer fnRows.Close()
	for fnRows.Next() {
		var name string
		var payload []byte
		if err := fnRows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("sqlschema: scan function: %w", err)
		}
		var fn index.Function
		if err := decode(payload, &fn); err != nil {
			return nil, fmt.Errorf("sqlschema: decode function %s: %w", name, err)
		}
		snapshot.Functions[name] = &fn
	}

	clsRows, err := db.Query("SELECT name, payload FROM phpfront_classes")
	if err != nil {
		return nil, fmt.Errorf("sqlschema: select classes: %w", err)
	}
	defer clsRows.Close()
	for clsRows.Next() {
		var name string
		var payload []byte
		if err := clsRows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("sqlschema: scan class: %w", err)
		}
		var cl index.ClassLike
		if err := decode(payload, &cl); err != nil {
			return nil, fmt.Errorf("sqlschema: decode class %s: %w", name, err)
		}
		snapshot.Classes[name] = &cl
	}

	return snapshot, nil
}

func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
