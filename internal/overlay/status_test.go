package overlay

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatusRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.status")

	if _, ok := ReadStatus(path); ok {
		t.Fatal("missing marker should not read")
	}

	if err := WriteStatus(path, StatusRunning); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok := ReadStatus(path)
	if !ok || got != StatusRunning {
		t.Fatalf("expected running, got %q ok=%v", got, ok)
	}
}

func TestReadStatusTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.status")
	if err := os.WriteFile(path, []byte("stopped\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok := ReadStatus(path)
	if !ok || got != StatusStopped {
		t.Fatalf("expected stopped, got %q", got)
	}
}

func TestPidRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.pid")

	if _, ok := ReadPid(path); ok {
		t.Fatal("missing pid file should not read")
	}

	if err := WritePid(path, 4242); err != nil {
		t.Fatalf("write: %v", err)
	}
	pid, ok := ReadPid(path)
	if !ok || pid != 4242 {
		t.Fatalf("expected 4242, got %d ok=%v", pid, ok)
	}

	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := ReadPid(path); ok {
		t.Fatal("malformed pid file should not read")
	}
}
