// Package filedriver is the minimal default storage backend: one
// opaque encoding/gob blob on local disk. Grounded on the teacher's
// preference for stdlib-first persistence where no teacher package
// already serializes this particular shape (see DESIGN.md).
package filedriver

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/vellumlang/phpfront/index"
	"github.com/vellumlang/phpfront/index/storage"
)

func init() {
	storage.Register(&Driver{})
}

// Driver opens a gob-encoded file at config["path"].
type Driver struct{}

func (d *Driver) Name() string { return "file" }

func (d *Driver) Open(config map[string]string) (storage.Store, error) {
	path := config["path"]
	if path == "" {
		return nil, fmt.Errorf("filedriver: missing \"path\" in config")
	}
	return &Store{path: path}, nil
}

// Store is a single-file Store.
type Store struct {
	path string
}

func (s *Store) Store(snapshot *index.Snapshot) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("filedriver: create %s: %w", s.path, err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(snapshot); err != nil {
		return fmt.Errorf("filedriver: encode: %w", err)
	}
	return nil
}

func (s *Store) Load() (*index.Snapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("filedriver: open %s: %w", s.path, err)
	}
	defer f.Close()
	var snapshot index.Snapshot
	if err := gob.NewDecoder(f).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("filedriver: decode: %w", err)
	}
	return &snapshot, nil
}

func (s *Store) Close() error { return nil }
