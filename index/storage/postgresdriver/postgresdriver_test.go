package postgresdriver

import "testing"

func TestPostgresDriverStoreLoadRoundTrip(t *testing.T) {
	t.Skip("Integration test - requires a reachable PostgreSQL server")
}

func TestPostgresDriverName(t *testing.T) {
	drv := &Driver{}
	if drv.Name() != "pgsql" {
		t.Fatalf("got %q, want %q", drv.Name(), "pgsql")
	}
}
