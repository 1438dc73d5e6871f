package transport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "refresh_token")
	s := NewFileStorage(path)

	if tok, err := s.Load(); err != nil || tok != "" {
		t.Fatalf("empty store: tok=%q err=%v", tok, err)
	}
	if err := s.Store("R1"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if tok, err := s.Load(); err != nil || tok != "R1" {
		t.Fatalf("Load: tok=%q err=%v", tok, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token file mode %o, want 600", perm)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear must be idempotent: %v", err)
	}
	if tok, err := s.Load(); err != nil || tok != "" {
		t.Fatalf("cleared store: tok=%q err=%v", tok, err)
	}
}

func TestDefaultStoragePath_HonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := DefaultStoragePath()
	if !strings.HasPrefix(got, dir) || !strings.HasSuffix(got, filepath.Join("habitloop", "refresh_token")) {
		t.Fatalf("unexpected path: %s", got)
	}
}
