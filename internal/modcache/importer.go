package modcache

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modlay/internal/logx"
	"modlay/internal/tools"
)

// Selection is one package the user wants active this session.
type Selection struct {
	DisplayName string
	SourcePath  string
	IsCustom    bool
}

// ImportStatus describes how a selection was satisfied.
type ImportStatus string

const (
	// ImportCached means a valid artifact already existed; no tool ran.
	ImportCached ImportStatus = "cached"

	// ImportConverted means the external import tool produced the artifact.
	ImportConverted ImportStatus = "imported"

	// ImportCopied means the source directory was copied verbatim.
	ImportCopied ImportStatus = "copied"

	// ImportSkipped means the selection was dropped; Reason says why. The
	// activation continues with the remaining selections.
	ImportSkipped ImportStatus = "skipped"
)

// ImportResult reports the outcome for a single selection.
type ImportResult struct {
	Key    string       `json:"key"`
	Path   string       `json:"path,omitempty"`
	Status ImportStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
}

// Importer turns raw source packages into installed artifacts, reusing
// anything the cache already holds.
type Importer struct {
	InstalledDir string
	Tools        tools.Tools
	Runner       tools.Runner
	Logger       logx.Logger
}

func (imp *Importer) logf(format string, v ...any) {
	if imp == nil || imp.Logger == nil {
		return
	}
	imp.Logger.Printf(format, v...)
}

// EnsureImported resolves the selection's cache key and makes sure a converted
// artifact exists under it. A valid cached artifact short-circuits without
// invoking any tool. Failures never abort the caller: the selection is
// reported as skipped and the session continues without it.
func (imp *Importer) EnsureImported(ctx context.Context, idx *Index, sel Selection, gamePath string) ImportResult {
	key := ResolveKey(sel.SourcePath, sel.DisplayName)
	target := filepath.Join(imp.InstalledDir, key)

	if IsValid(target) {
		imp.logf("import: cache hit %s", key)
		idx.Set(Entry{Key: key, Path: target, Source: sel.SourcePath, ImportedAt: time.Now().UTC()})
		return ImportResult{Key: key, Path: target, Status: ImportCached}
	}

	src, ok := resolveSource(sel.SourcePath)
	if !ok {
		imp.logf("import: source missing for %q: %s", sel.DisplayName, sel.SourcePath)
		return ImportResult{Key: key, Status: ImportSkipped, Reason: "source not found"}
	}

	// A leftover target that failed validation is stale partial output;
	// importing on top of it would mix attempts.
	if _, err := os.Stat(target); err == nil {
		if err := os.RemoveAll(target); err != nil {
			imp.logf("import: remove stale %s: %v", key, err)
			return ImportResult{Key: key, Status: ImportSkipped, Reason: "stale artifact not removable"}
		}
	}

	info, err := os.Stat(src)
	if err != nil {
		imp.logf("import: stat %s: %v", src, err)
		return ImportResult{Key: key, Status: ImportSkipped, Reason: "source not readable"}
	}

	var status ImportStatus
	if info.IsDir() {
		imp.logf("import: copying %s -> %s", src, key)
		if err := copyDir(src, target); err != nil {
			imp.logf("import: copy failed for %s: %v", key, err)
			return ImportResult{Key: key, Status: ImportSkipped, Reason: err.Error()}
		}
		status = ImportCopied
	} else {
		imp.logf("import: converting %s -> %s", src, key)
		args := []string{"import", src, target, "--game:" + gamePath}
		result, runErr := imp.Runner.Run(ctx, imp.Tools.ModTools, args, tools.RunOptions{})
		if runErr != nil {
			reason := strings.TrimSpace(string(result.Stderr))
			if reason == "" {
				reason = runErr.Error()
			}
			imp.logf("import: tool failed for %s: %s", key, reason)
			return ImportResult{Key: key, Status: ImportSkipped, Reason: reason}
		}
		status = ImportConverted
	}

	idx.Set(Entry{Key: key, Path: target, Source: sel.SourcePath, ImportedAt: time.Now().UTC()})
	return ImportResult{Key: key, Path: target, Status: status}
}

// resolveSource checks the selection path, trying one alternate
// path-separator normalization before giving up.
func resolveSource(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	if _, err := os.Stat(p); err == nil {
		return p, true
	}

	var alt string
	if strings.ContainsRune(p, '\\') {
		alt = strings.ReplaceAll(p, `\`, "/")
	} else {
		alt = strings.ReplaceAll(p, "/", `\`)
	}
	if alt != p {
		if _, err := os.Stat(alt); err == nil {
			return alt, true
		}
	}
	return "", false
}

func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("create target dir: %w", err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read source dir: %w", err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create target: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy data: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close target: %w", err)
	}
	return nil
}
