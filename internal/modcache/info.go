package modcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"modlay/internal/logx"
	"modlay/internal/paths"
)

// FileInfo describes one top-level cache item.
type FileInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	Modified  time.Time `json:"modified"`
}

// Info aggregates cache usage across the mods, installed and profile trees.
type Info struct {
	Path       string     `json:"path"`
	TotalBytes int64      `json:"total_bytes"`
	FileCount  int        `json:"file_count"`
	Files      []FileInfo `json:"files"`
}

// CollectInfo walks the cache trees and reports their contents, newest first.
// Missing directories contribute nothing.
func CollectInfo(l paths.Layout) Info {
	info := Info{Path: l.Root}

	scan := func(dir, prefix string) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())

			var size int64
			if entry.IsDir() {
				size, _ = DirSize(full)
			} else if meta, err := entry.Info(); err == nil {
				size = meta.Size()
			}

			modified := time.Time{}
			if meta, err := entry.Info(); err == nil {
				modified = meta.ModTime()
			}

			info.TotalBytes += size
			info.FileCount++
			info.Files = append(info.Files, FileInfo{
				Name:      fmt.Sprintf("[%s] %s", prefix, entry.Name()),
				Path:      full,
				SizeBytes: size,
				Modified:  modified,
			})
		}
	}

	scan(l.ModsDir, "mods")
	scan(l.InstalledDir, "installed")
	scan(l.ProfileDir, "overlay")

	sort.Slice(info.Files, func(i, j int) bool {
		return info.Files[i].Modified.After(info.Files[j].Modified)
	})
	return info
}

// DirSize returns the recursive size of a directory in bytes.
func DirSize(dir string) (int64, error) {
	var size int64
	err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	return size, err
}

// ClearAll removes every cached artifact, the built profile, the marker files
// and the persisted index. The overlay process is not touched; callers stop
// it first if needed.
func ClearAll(l paths.Layout, logger logx.Logger) error {
	if logger == nil {
		logger = logx.Noop{}
	}

	var errs []error
	for _, dir := range []string{l.ModsDir, l.InstalledDir, l.ProfileDir} {
		if err := os.RemoveAll(dir); err != nil {
			logger.Printf("cache clear: %s: %v", dir, err)
			errs = append(errs, err)
			continue
		}
		logger.Printf("cache clear: removed %s", dir)
	}

	for _, file := range []string{l.SelectionHashFile, l.StatusFile, l.PidFile, l.IndexFile} {
		if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Printf("cache clear: %s: %v", file, err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// DeleteArtifact removes the cached data for one mod by display or file name.
// Marketplace imports are stored under a prefixed key, so that twin is removed
// as well. The selection hash is invalidated only when something was actually
// deleted. Returns the number of items removed; absence is not an error.
func DeleteArtifact(l paths.Layout, idx *Index, name string, logger logx.Logger) int {
	if logger == nil {
		logger = logx.Noop{}
	}

	key := packageKey(name)
	if key == "" {
		key = sanitizeStrict(name)
	}

	removed := 0
	candidates := []string{
		filepath.Join(l.ModsDir, key),
		filepath.Join(l.InstalledDir, key),
		filepath.Join(l.InstalledDir, marketplacePrefix+key),
	}
	for _, dir := range candidates {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			logger.Printf("cache delete: %s: %v", dir, err)
			continue
		}
		logger.Printf("cache delete: removed %s", dir)
		removed++
	}

	if removed > 0 {
		idx.Delete(key)
		idx.Delete(marketplacePrefix + key)
		if err := os.Remove(l.SelectionHashFile); err == nil {
			logger.Printf("cache delete: selection hash invalidated")
		}
	}
	return removed
}
