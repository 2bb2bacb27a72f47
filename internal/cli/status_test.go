package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"modlay/internal/overlay"
	"modlay/internal/paths"
)

func withTestRoot(t *testing.T) paths.Layout {
	t.Helper()

	prevRoot := stateRoot
	prevJSON := outputJSON
	t.Cleanup(func() {
		stateRoot = prevRoot
		outputJSON = prevJSON
	})

	stateRoot = t.TempDir()
	outputJSON = false

	l, err := paths.Resolve(stateRoot)
	if err != nil {
		t.Fatalf("resolve layout: %v", err)
	}
	if err := l.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	return l
}

func TestStatusCommandTableOutput(t *testing.T) {
	l := withTestRoot(t)

	if err := os.MkdirAll(filepath.Join(l.InstalledDir, "star-guardian", "WAD"), 0o755); err != nil {
		t.Fatalf("make artifact: %v", err)
	}
	if err := overlay.WriteStatus(l.StatusFile, overlay.StatusStopped); err != nil {
		t.Fatalf("write status: %v", err)
	}

	cmd := newStatusCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("status command returned error: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "State root: "+l.Root) {
		t.Errorf("missing state root line:\n%s", got)
	}
	if !strings.Contains(got, "stopped") {
		t.Errorf("missing overlay marker:\n%s", got)
	}
	if !strings.Contains(got, "star-guardian") {
		t.Errorf("missing installed mod:\n%s", got)
	}
}

func TestStatusCommandJSONOutput(t *testing.T) {
	l := withTestRoot(t)
	outputJSON = true

	if err := overlay.WriteStatus(l.StatusFile, overlay.StatusReady); err != nil {
		t.Fatalf("write status: %v", err)
	}

	cmd := newStatusCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("status command returned error: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, `"overlay": "ready"`) {
		t.Errorf("missing overlay field:\n%s", got)
	}
	if !strings.Contains(got, `"running": false`) {
		t.Errorf("missing running field:\n%s", got)
	}
}
