package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout captures canonical on-disk locations for modlay state. Everything
// lives under a single root so the whole tree can be inspected or wiped as
// one unit.
type Layout struct {
	Root string

	// ModsDir holds imported artifacts keyed by cache key, each containing
	// WAD and/or META subdirectories.
	ModsDir string

	// OverlayDir is the parent of the staged/installed artifacts, the built
	// profile, and the overlay marker files.
	OverlayDir   string
	InstalledDir string
	ProfileDir   string

	// ProfileConfigFile is the empty placeholder the run tool requires.
	ProfileConfigFile string

	StatusFile        string
	PidFile           string
	SelectionHashFile string

	// IndexFile is the persisted cache-key index.
	IndexFile string

	ConfigFile   string
	GamePathFile string
	LogsDir      string
}

// Resolve determines the state root using the optional --root flag or the
// user cache directory when the flag is empty.
func Resolve(rootFlag string) (Layout, error) {
	var (
		root string
		err  error
	)

	if rootFlag != "" {
		root, err = filepath.Abs(rootFlag)
		if err != nil {
			return Layout{}, fmt.Errorf("resolve state root: %w", err)
		}
		return newLayout(root), nil
	}

	base, err := os.UserCacheDir()
	if err != nil {
		base = "."
	}
	return newLayout(filepath.Join(base, "modlay")), nil
}

func newLayout(root string) Layout {
	overlay := filepath.Join(root, "overlay")
	return Layout{
		Root:              root,
		ModsDir:           filepath.Join(root, "mods"),
		OverlayDir:        overlay,
		InstalledDir:      filepath.Join(overlay, "installed"),
		ProfileDir:        filepath.Join(overlay, "profile"),
		ProfileConfigFile: filepath.Join(overlay, "profile.config"),
		StatusFile:        filepath.Join(overlay, "overlay.status"),
		PidFile:           filepath.Join(overlay, "overlay.pid"),
		SelectionHashFile: filepath.Join(overlay, "selection.hash"),
		IndexFile:         filepath.Join(overlay, "index.json"),
		ConfigFile:        filepath.Join(root, "modlay.yaml"),
		GamePathFile:      filepath.Join(root, "game_path.txt"),
		LogsDir:           filepath.Join(root, "logs"),
	}
}

// EnsureDirs creates the mods/overlay/logs hierarchy.
func (l Layout) EnsureDirs() error {
	dirs := []string{l.ModsDir, l.InstalledDir, l.ProfileDir, l.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
