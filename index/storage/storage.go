// Package storage declares the persistence boundary between the
// symbol index and wherever a host chooses to keep it. The core never
// imports a specific driver; a host wires whichever it needs by name
// (§4.3 "drivers declare themselves by a string name plus a string-to-
// string config map").
package storage

import "github.com/vellumlang/phpfront/index"

// Driver opens a named backend from a flat string config (DSN pieces,
// file paths, and the like — never a typed config struct, so a new
// driver can be added without touching this package).
type Driver interface {
	Name() string
	Open(config map[string]string) (Store, error)
}

// Store round-trips one index.Snapshot. A conforming driver must make
// Store then Load produce a logically equal snapshot to what was
// stored, but is free to choose its own on-disk representation.
type Store interface {
	Store(snapshot *index.Snapshot) error
	Load() (*index.Snapshot, error)
	Close() error
}

// registry lets a host look drivers up by name without every caller
// importing every driver package directly.
var registry = make(map[string]Driver)

// Register adds a driver under its own Name(). Driver packages call
// this from an init() func, mirroring the teacher's pdo.RegisterDriver.
func Register(d Driver) {
	registry[d.Name()] = d
}

// Get looks up a previously registered driver by name.
func Get(name string) (Driver, bool) {
	d, ok := registry[name]
	return d, ok
}
