package modcache

import (
	"os"
	"path/filepath"
	"testing"
)

func mkArtifact(t *testing.T, root, name string, subs ...string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if len(subs) == 0 {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		return dir
	}
	for _, sub := range subs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("mkdir %s/%s: %v", name, sub, err)
		}
	}
	return dir
}

func TestIsValid(t *testing.T) {
	root := t.TempDir()

	metaOnly := mkArtifact(t, root, "meta_only", "META")
	wadOnly := mkArtifact(t, root, "wad_only", "WAD")
	empty := mkArtifact(t, root, "empty")

	if !IsValid(metaOnly) {
		t.Fatal("META alone should be valid")
	}
	if !IsValid(wadOnly) {
		t.Fatal("WAD alone should be valid")
	}
	if IsValid(empty) {
		t.Fatal("empty directory should be invalid")
	}
}

func TestScanExistingRemovesTransients(t *testing.T) {
	root := t.TempDir()
	mkArtifact(t, root, "temp_12345", "WAD")
	keep := mkArtifact(t, root, "103_103085", "WAD")

	found := ScanExisting(root, nil)

	if _, err := os.Stat(filepath.Join(root, "temp_12345")); !os.IsNotExist(err) {
		t.Fatal("transient directory should be deleted")
	}
	if got := found["103_103085"]; got != keep {
		t.Fatalf("expected surviving artifact, got %v", found)
	}
}

func TestScanExistingCollapsesDuplicates(t *testing.T) {
	root := t.TempDir()
	first := mkArtifact(t, root, "103_103085", "WAD")
	mkArtifact(t, root, "mod_0_103_103085", "WAD")
	mkArtifact(t, root, "mod_3_103_103085", "META")

	found := ScanExisting(root, nil)

	if len(found) != 1 {
		t.Fatalf("expected exactly one survivor, got %v", found)
	}
	if found["103_103085"] != first {
		t.Fatalf("expected earliest encountered to survive, got %v", found)
	}
	if _, err := os.Stat(filepath.Join(root, "mod_0_103_103085")); !os.IsNotExist(err) {
		t.Fatal("duplicate should be deleted")
	}

	// Second pass finds nothing further to remove.
	again := ScanExisting(root, nil)
	if len(again) != 1 || again["103_103085"] != first {
		t.Fatalf("second scan should be a no-op, got %v", again)
	}
}

func TestScanExistingIgnoresInvalidDirs(t *testing.T) {
	root := t.TempDir()
	mkArtifact(t, root, "broken")
	mkArtifact(t, root, "ok", "META")

	found := ScanExisting(root, nil)
	if len(found) != 1 {
		t.Fatalf("invalid dirs must not be indexed, got %v", found)
	}
	if _, err := os.Stat(filepath.Join(root, "broken")); err != nil {
		t.Fatal("invalid dirs are left alone by the scan")
	}
}

func TestScanExistingMissingDir(t *testing.T) {
	found := ScanExisting(filepath.Join(t.TempDir(), "nope"), nil)
	if len(found) != 0 {
		t.Fatalf("expected empty result, got %v", found)
	}
}

func TestBaseIdentity(t *testing.T) {
	cases := map[string]string{
		"103_103085":       "103_103085",
		"mod_0_103_103085": "103_103085",
		"mod_12_custom":    "custom",
		"mod_1700000000":   "mod_1700000000",
		"marketplace_abc":  "marketplace_abc",
	}
	for in, want := range cases {
		if got := baseIdentity(in); got != want {
			t.Fatalf("baseIdentity(%q) = %q, want %q", in, got, want)
		}
	}
}
