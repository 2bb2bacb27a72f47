package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modlay/internal/config"
	"modlay/internal/logx"
	"modlay/internal/paths"
)

// defaultSearchPaths are the common install locations probed when nothing is
// saved or configured. Per-drive variants cover the usual secondary-disk
// installs.
var defaultSearchPaths = []string{
	`C:\Riot Games\League of Legends`,
	`D:\Riot Games\League of Legends`,
	`E:\Riot Games\League of Legends`,
	`C:\Program Files\Riot Games\League of Legends`,
	`C:\Program Files (x86)\Riot Games\League of Legends`,
}

// DetectGamePath finds the game installation directory. The previously saved
// path wins when still valid; a stale saved path is dropped before probing the
// configured path and the well-known install locations. A fresh hit is saved
// for next time.
func DetectGamePath(l paths.Layout, cfg config.Config, logger logx.Logger) (string, bool) {
	if logger == nil {
		logger = logx.Noop{}
	}
	exe := cfg.Game.ExeName

	if saved, ok := SavedGamePath(l); ok {
		if dir, valid := validGameDir(saved, exe); valid {
			return dir, true
		}
		logger.Printf("game: saved path stale, dropping: %s", saved)
		if err := ClearGamePath(l); err != nil {
			logger.Printf("game: clear saved path: %v", err)
		}
	}

	candidates := []string{}
	if cfg.Game.Path != "" {
		candidates = append(candidates, cfg.Game.Path)
	}
	candidates = append(candidates, cfg.Game.SearchPaths...)
	candidates = append(candidates, defaultSearchPaths...)

	for _, candidate := range candidates {
		dir, valid := validGameDir(candidate, exe)
		if !valid {
			continue
		}
		logger.Printf("game: detected at %s", dir)
		if err := SetGamePath(l, dir, exe); err != nil {
			logger.Printf("game: save detected path: %v", err)
		}
		return dir, true
	}

	return "", false
}

// SetGamePath validates and persists the game directory.
func SetGamePath(l paths.Layout, dir, exeName string) error {
	resolved, valid := validGameDir(dir, exeName)
	if !valid {
		return fmt.Errorf("no %s under %s", exeName, dir)
	}
	if err := os.MkdirAll(filepath.Dir(l.GamePathFile), 0o755); err != nil {
		return fmt.Errorf("ensure state root: %w", err)
	}
	if err := os.WriteFile(l.GamePathFile, []byte(resolved), 0o644); err != nil {
		return fmt.Errorf("save game path: %w", err)
	}
	return nil
}

// ClearGamePath forgets the persisted game directory.
func ClearGamePath(l paths.Layout) error {
	if err := os.Remove(l.GamePathFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear game path: %w", err)
	}
	return nil
}

// SavedGamePath reads the persisted game directory, if any.
func SavedGamePath(l paths.Layout) (string, bool) {
	data, err := os.ReadFile(l.GamePathFile)
	if err != nil {
		return "", false
	}
	p := strings.TrimSpace(string(data))
	return p, p != ""
}

// validGameDir checks whether dir holds the game executable, either directly
// or in the conventional Game subdirectory, and returns the directory that
// actually contains it.
func validGameDir(dir, exeName string) (string, bool) {
	if dir == "" || exeName == "" {
		return "", false
	}
	for _, candidate := range []string{dir, filepath.Join(dir, "Game")} {
		if ok, _ := paths.FileExists(filepath.Join(candidate, exeName)); ok {
			return candidate, true
		}
	}
	return "", false
}
