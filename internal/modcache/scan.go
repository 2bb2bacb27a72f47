package modcache

import (
	"os"
	"path/filepath"
	"strings"

	"modlay/internal/logx"
)

// transientPrefix marks half-finished import directories left behind by an
// interrupted run. They are never valid and are removed on sight.
const transientPrefix = "temp_"

// sessionPrefix is the historical per-session naming scheme (mod_<n>_<base>).
// Directories created that way collapse onto their base identity during a
// scan so the same package never occupies two slots.
const sessionPrefix = "mod_"

// IsValid reports whether an imported artifact directory is usable: it must
// contain a WAD or a META sub-structure. Either alone is enough, since some
// packages legitimately ship only one.
func IsValid(dir string) bool {
	for _, sub := range []string{"WAD", "META"} {
		if info, err := os.Stat(filepath.Join(dir, sub)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// ScanExisting enumerates the installed-artifacts directory and returns the
// surviving cache keys mapped to their paths. Along the way it removes
// transient directories from interrupted runs and collapses duplicates that
// resolve to the same base identity, keeping the first encountered. Cleanup
// is best effort: filesystem errors are logged and skipped, and the scan as a
// whole never fails.
func ScanExisting(installedDir string, logger logx.Logger) map[string]string {
	if logger == nil {
		logger = logx.Noop{}
	}

	found := map[string]string{}

	entries, err := os.ReadDir(installedDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Printf("scan: read %s: %v", installedDir, err)
		}
		return found
	}

	// os.ReadDir sorts by name, so "first encountered" is deterministic.
	seen := map[string]string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		full := filepath.Join(installedDir, name)

		if strings.HasPrefix(name, transientPrefix) {
			if err := os.RemoveAll(full); err != nil {
				logger.Printf("scan: remove transient %s: %v", name, err)
			} else {
				logger.Printf("scan: removed transient %s", name)
			}
			continue
		}

		if !IsValid(full) {
			continue
		}

		base := baseIdentity(name)
		if firstName, dup := seen[base]; dup {
			if err := os.RemoveAll(full); err != nil {
				logger.Printf("scan: remove duplicate %s (kept %s): %v", name, firstName, err)
			} else {
				logger.Printf("scan: removed duplicate %s (kept %s)", name, firstName)
			}
			continue
		}

		seen[base] = name
		found[name] = full
	}

	return found
}

// baseIdentity strips the incidental mod_<n>_ session prefix so that
// "mod_0_103_103085" and "103_103085" group together.
func baseIdentity(name string) string {
	rest, ok := strings.CutPrefix(name, sessionPrefix)
	if !ok {
		return name
	}
	if idx := strings.IndexByte(rest, '_'); idx >= 0 {
		return rest[idx+1:]
	}
	return name
}
