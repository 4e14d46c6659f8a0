package importer

import (
	"os"
	"path/filepath"
	"testing"
)

// TestStateDBRoundTrip verifies that a marked file is reported as imported
// and that a changed hash triggers re-import.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	done, err := state.IsImported("logs/jan.csv", 120, "abc")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if done {
		t.Error("fresh state reports file as imported")
	}

	if err := state.MarkImported("logs/jan.csv", 120, "abc"); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}

	done, err = state.IsImported("logs/jan.csv", 120, "abc")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if !done {
		t.Error("marked file not reported as imported")
	}

	// Same path, different content: must be re-imported.
	done, err = state.IsImported("logs/jan.csv", 130, "def")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if done {
		t.Error("changed file still reported as imported")
	}
}

// TestHashFile verifies hashing is stable and content-sensitive.
func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(path, []byte("date,exercise,set,reps\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if h1 != h2 {
		t.Error("hash not stable across reads")
	}

	if err := os.WriteFile(path, []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}
	h3, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if h3 == h1 {
		t.Error("hash unchanged after content change")
	}
}
