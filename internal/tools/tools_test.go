package tools

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTool(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, BinaryName())
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write tool: %v", err)
	}
	return path
}

func TestLocateWithOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "managers")
	want := writeTool(t, dir)

	got, err := Locate(dir)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got.ModTools != want {
		t.Fatalf("expected %s, got %s", want, got.ModTools)
	}
	if got.Dir != dir {
		t.Fatalf("expected dir %s, got %s", dir, got.Dir)
	}
}

func TestLocateOverrideMissing(t *testing.T) {
	_, err := Locate(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHasBridge(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "managers")
	writeTool(t, dir)

	tl, err := Locate(dir)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if tl.HasBridge() {
		t.Fatal("bridge should be absent")
	}

	if err := os.WriteFile(tl.BridgePath(), []byte("dll"), 0o644); err != nil {
		t.Fatalf("write bridge: %v", err)
	}
	if !tl.HasBridge() {
		t.Fatal("bridge should be present")
	}
}
