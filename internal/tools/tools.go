// Package tools locates the external mod-tools helper binary and the native
// bridge component it loads at runtime. The binary is shipped alongside the
// application rather than installed system-wide, so discovery walks a short
// list of well-known locations instead of PATH.
package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrNotFound indicates the mod-tools binary is missing from every candidate
// location. This is fatal for any activation attempt.
var ErrNotFound = errors.New("mod-tools binary not found")

// BridgeName is the native bridge component the run tool injects. Its absence
// is logged but not fatal.
const BridgeName = "cslol-dll.dll"

const baseName = "mod-tools"

// Tools holds resolved helper locations.
type Tools struct {
	// Dir is the managers directory containing the helper binary.
	Dir string

	// ModTools is the absolute path of the helper binary.
	ModTools string
}

// BinaryName returns the platform-specific helper binary file name.
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return baseName + ".exe"
	}
	return baseName
}

// BridgePath returns the expected native bridge location.
func (t Tools) BridgePath() string {
	return filepath.Join(t.Dir, BridgeName)
}

// HasBridge reports whether the native bridge component is present.
func (t Tools) HasBridge() bool {
	info, err := os.Stat(t.BridgePath())
	return err == nil && info.Mode().IsRegular()
}

// Locate resolves the managers directory. An explicit override wins; otherwise
// the executable's directory, the working directory, and the working
// directory's parent are probed, each with a managers/ subdirectory.
func Locate(override string) (Tools, error) {
	bin := BinaryName()

	if override != "" {
		if t, ok := probe(override, bin); ok {
			return t, nil
		}
		return Tools{}, fmt.Errorf("%w in %s", ErrNotFound, override)
	}

	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "managers"))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates,
			filepath.Join(cwd, "managers"),
			filepath.Join(filepath.Dir(cwd), "managers"),
		)
	}

	for _, dir := range candidates {
		if t, ok := probe(dir, bin); ok {
			return t, nil
		}
	}
	return Tools{}, ErrNotFound
}

func probe(dir, bin string) (Tools, bool) {
	path := filepath.Join(dir, bin)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return Tools{}, false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Tools{Dir: filepath.Dir(abs), ModTools: abs}, true
}
