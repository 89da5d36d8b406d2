package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileRepositoryRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	r := NewFileRepository(path)

	// missing key is empty, not an error
	if v, err := r.Get("course:d1"); err != nil || v != "" {
		t.Fatalf("Get on empty repo = %q, %v", v, err)
	}

	if err := r.Set("course:d1", "118"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// a fresh instance must see the persisted value (reload survives)
	r2 := NewFileRepository(path)
	if v, _ := r2.Get("course:d1"); v != "118" {
		t.Errorf("Get after reload = %q, want %q", v, "118")
	}

	if err := r2.Clear("course:d1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if v, _ := NewFileRepository(path).Get("course:d1"); v != "" {
		t.Errorf("value survived Clear: %q", v)
	}
}

func TestFileRepositoryClearMissingKey(t *testing.T) {
	r := NewFileRepository(filepath.Join(t.TempDir(), "session.json"))
	if err := r.Clear("never-set"); err != nil {
		t.Errorf("Clear on missing key: %v", err)
	}
}

func TestFileRepositoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	os.WriteFile(path, []byte("{not json"), 0o600)

	if _, err := NewFileRepository(path).Get("k"); err == nil {
		t.Error("expected error on corrupt file")
	}
}

func TestMemoryRepository(t *testing.T) {
	r := NewMemoryRepository()

	r.Set("k", "v")
	if got, _ := r.Get("k"); got != "v" {
		t.Errorf("Get = %q", got)
	}
	r.Clear("k")
	if got, _ := r.Get("k"); got != "" {
		t.Errorf("Get after Clear = %q", got)
	}
}
