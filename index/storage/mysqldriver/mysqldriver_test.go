package mysqldriver

import "testing"

func TestMySQLDriverStoreLoadRoundTrip(t *testing.T) {
	t.Skip("Integration test - requires a reachable MySQL server")
}

func TestMySQLDriverName(t *testing.T) {
	drv := &Driver{}
	if drv.Name() != "mysql" {
		t.Fatalf("got %q, want %q", drv.Name(), "mysql")
	}
}
