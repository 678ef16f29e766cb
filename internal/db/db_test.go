package db

import (
	"testing"
)

func TestOpenAppliesMigrations(t *testing.T) {
	d, err := Open("file:db_migrations?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	for _, table := range []string{"users", "orders", "menu_items", "favorites", "partner_applications"} {
		var name string
		err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing after migration: %v", table, err)
		}
	}

	// Opening again is a no-op, not a re-apply.
	var applied int
	if err := d.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied == 0 {
		t.Error("no migrations recorded")
	}
}

func TestRollbackLast(t *testing.T) {
	d, err := Open("file:db_rollback?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	if err := RollbackLast(d); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	var name string
	err = d.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='orders'`).Scan(&name)
	if err == nil {
		t.Error("orders table still present after rollback")
	}

	// Rolling back an empty schema is a no-op.
	if err := RollbackLast(d); err != nil {
		t.Errorf("rollback on empty schema: %v", err)
	}
}
