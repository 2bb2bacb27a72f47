package session

import (
	"os"
	"path/filepath"
	"testing"

	"modlay/internal/config"
	"modlay/internal/paths"
)

func gameDir(t *testing.T, exeName string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, exeName), []byte("bin"), 0o755); err != nil {
		t.Fatalf("write exe: %v", err)
	}
	return dir
}

func layoutFor(t *testing.T) paths.Layout {
	t.Helper()
	l, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("resolve layout: %v", err)
	}
	return l
}

func TestDetectPrefersSavedPath(t *testing.T) {
	l := layoutFor(t)
	cfg := config.Default()
	cfg.Game.ExeName = "game.exe"

	saved := gameDir(t, cfg.Game.ExeName)
	if err := SetGamePath(l, saved, cfg.Game.ExeName); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok := DetectGamePath(l, cfg, nil)
	if !ok || got != saved {
		t.Fatalf("detect = %q ok=%v, want saved path", got, ok)
	}
}

func TestDetectDropsStaleSavedPath(t *testing.T) {
	l := layoutFor(t)
	cfg := config.Default()
	cfg.Game.ExeName = "game.exe"

	stale := gameDir(t, cfg.Game.ExeName)
	if err := SetGamePath(l, stale, cfg.Game.ExeName); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := os.Remove(filepath.Join(stale, cfg.Game.ExeName)); err != nil {
		t.Fatalf("remove exe: %v", err)
	}

	fresh := gameDir(t, cfg.Game.ExeName)
	cfg.Game.SearchPaths = []string{fresh}

	got, ok := DetectGamePath(l, cfg, nil)
	if !ok || got != fresh {
		t.Fatalf("detect = %q ok=%v, want search-path hit", got, ok)
	}
	if saved, _ := SavedGamePath(l); saved != fresh {
		t.Fatalf("fresh hit must be persisted, saved = %q", saved)
	}
}

func TestDetectResolvesGameSubdirectory(t *testing.T) {
	l := layoutFor(t)
	cfg := config.Default()
	cfg.Game.ExeName = "game.exe"

	root := t.TempDir()
	sub := filepath.Join(root, "Game")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, cfg.Game.ExeName), []byte("bin"), 0o755); err != nil {
		t.Fatalf("write exe: %v", err)
	}
	cfg.Game.Path = root

	got, ok := DetectGamePath(l, cfg, nil)
	if !ok || got != sub {
		t.Fatalf("detect = %q ok=%v, want Game subdirectory", got, ok)
	}
}

func TestDetectNothingFound(t *testing.T) {
	l := layoutFor(t)
	cfg := config.Default()
	cfg.Game.ExeName = "definitely-not-installed.exe"

	if _, ok := DetectGamePath(l, cfg, nil); ok {
		t.Fatal("detect must fail when nothing matches")
	}
}

func TestSetGamePathRejectsInvalidDir(t *testing.T) {
	l := layoutFor(t)
	if err := SetGamePath(l, t.TempDir(), "game.exe"); err == nil {
		t.Fatal("directory without the executable must be rejected")
	}
}

func TestClearGamePath(t *testing.T) {
	l := layoutFor(t)
	dir := gameDir(t, "game.exe")
	if err := SetGamePath(l, dir, "game.exe"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ClearGamePath(l); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := SavedGamePath(l); ok {
		t.Fatal("cleared path must not read back")
	}
	if err := ClearGamePath(l); err != nil {
		t.Fatalf("clearing twice must be silent: %v", err)
	}
}
