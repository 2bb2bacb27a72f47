package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveWithFlag(t *testing.T) {
	root := t.TempDir()
	l, err := Resolve(root)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if l.Root != root {
		t.Fatalf("expected root %s, got %s", root, l.Root)
	}
	if l.InstalledDir != filepath.Join(root, "overlay", "installed") {
		t.Fatalf("unexpected installed dir: %s", l.InstalledDir)
	}
	if l.StatusFile != filepath.Join(root, "overlay", "overlay.status") {
		t.Fatalf("unexpected status file: %s", l.StatusFile)
	}
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	l, err := Resolve(filepath.Join(root, "state"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := l.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}

	for _, dir := range []string{l.ModsDir, l.InstalledDir, l.ProfileDir, l.LogsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected directory at %s", dir)
		}
	}
}

func TestFileAndDirExists(t *testing.T) {
	root := t.TempDir()

	file := filepath.Join(root, "marker.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ok, err := FileExists(file)
	if err != nil || !ok {
		t.Fatalf("expected file to exist, ok=%v err=%v", ok, err)
	}
	ok, err = FileExists(filepath.Join(root, "missing"))
	if err != nil || ok {
		t.Fatalf("expected missing file, ok=%v err=%v", ok, err)
	}

	ok, err = DirExists(root)
	if err != nil || !ok {
		t.Fatalf("expected dir to exist, ok=%v err=%v", ok, err)
	}
	ok, err = DirExists(file)
	if err != nil || ok {
		t.Fatalf("file should not count as dir, ok=%v err=%v", ok, err)
	}
}
