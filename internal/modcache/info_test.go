package modcache

import (
	"os"
	"path/filepath"
	"testing"

	"modlay/internal/paths"
)

func testLayout(t *testing.T) paths.Layout {
	t.Helper()
	l, err := paths.Resolve(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("resolve layout: %v", err)
	}
	if err := l.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	return l
}

func TestCollectInfo(t *testing.T) {
	l := testLayout(t)

	dir := mkArtifact(t, l.InstalledDir, "103_103085", "WAD")
	if err := os.WriteFile(filepath.Join(dir, "WAD", "a.wad.client"), make([]byte, 128), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(l.ProfileDir, "chunk.bin"), make([]byte, 64), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	info := CollectInfo(l)
	if info.FileCount != 2 {
		t.Fatalf("expected 2 items, got %d", info.FileCount)
	}
	if info.TotalBytes != 192 {
		t.Fatalf("expected 192 bytes, got %d", info.TotalBytes)
	}

	names := map[string]bool{}
	for _, f := range info.Files {
		names[f.Name] = true
	}
	if !names["[installed] 103_103085"] || !names["[overlay] chunk.bin"] {
		t.Fatalf("expected prefixed names, got %v", names)
	}
}

func TestClearAll(t *testing.T) {
	l := testLayout(t)

	mkArtifact(t, l.InstalledDir, "103_1", "WAD")
	for _, f := range []string{l.SelectionHashFile, l.StatusFile, l.PidFile} {
		if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}

	if err := ClearAll(l, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}

	for _, p := range []string{l.InstalledDir, l.SelectionHashFile, l.StatusFile, l.PidFile} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed", p)
		}
	}
}

func TestDeleteArtifact(t *testing.T) {
	l := testLayout(t)

	mkArtifact(t, l.InstalledDir, "My_Skin", "WAD")
	mkArtifact(t, l.InstalledDir, "marketplace_My_Skin", "META")
	if err := os.WriteFile(l.SelectionHashFile, []byte("h"), 0o644); err != nil {
		t.Fatalf("write hash: %v", err)
	}

	idx := newIndex()
	idx.Set(Entry{Key: "My_Skin", Path: filepath.Join(l.InstalledDir, "My_Skin")})

	removed := DeleteArtifact(l, idx, "My Skin.fantome", nil)
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}
	if _, ok := idx.Get("My_Skin"); ok {
		t.Fatal("index entry should be gone")
	}
	if _, err := os.Stat(l.SelectionHashFile); !os.IsNotExist(err) {
		t.Fatal("selection hash should be invalidated")
	}
}

func TestDeleteArtifactAbsentIsNoop(t *testing.T) {
	l := testLayout(t)
	if err := os.WriteFile(l.SelectionHashFile, []byte("h"), 0o644); err != nil {
		t.Fatalf("write hash: %v", err)
	}

	if removed := DeleteArtifact(l, newIndex(), "nothing-here", nil); removed != 0 {
		t.Fatalf("expected 0 removals, got %d", removed)
	}
	if _, err := os.Stat(l.SelectionHashFile); err != nil {
		t.Fatal("selection hash must survive when nothing was deleted")
	}
}
