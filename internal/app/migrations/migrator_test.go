package migrations

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	m := NewMigrator(nil, zerolog.Nop())

	versions, err := m.Versions()
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(versions) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	if versions[0] != "001" {
		t.Fatalf("expected first migration 001, got %s", versions[0])
	}
	for i := 1; i < len(versions); i++ {
		if versions[i-1] >= versions[i] {
			t.Fatalf("migrations out of order or duplicated: %v", versions)
		}
	}
}
