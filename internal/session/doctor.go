package session

import (
	"os"

	"modlay/internal/config"
	"modlay/internal/modcache"
	"modlay/internal/overlay"
	"modlay/internal/paths"
	"modlay/internal/tools"
)

// Diagnostics is a read-only snapshot of everything that matters for
// troubleshooting a failed activation. Collecting it never mutates state.
type Diagnostics struct {
	Root string `json:"root"`

	ToolPath  string `json:"tool_path,omitempty"`
	ToolFound bool   `json:"tool_found"`
	Bridge    bool   `json:"bridge_found"`

	GamePath      string `json:"game_path,omitempty"`
	GamePathValid bool   `json:"game_path_valid"`

	OverlayStatus  string `json:"overlay_status"`
	OverlayRunning bool   `json:"overlay_running"`

	InstalledMods    int   `json:"installed_mods"`
	ProfileFiles     int   `json:"profile_files"`
	CacheSizeBytes   int64 `json:"cache_size_bytes"`
	ProfileSizeBytes int64 `json:"profile_size_bytes"`
}

// CollectDiagnostics gathers the snapshot. The tools argument may be the zero
// value when discovery failed; supervisor may be nil, in which case only the
// persisted marker is reported.
func CollectDiagnostics(l paths.Layout, cfg config.Config, t tools.Tools, sup *overlay.Supervisor) Diagnostics {
	d := Diagnostics{Root: l.Root}

	if t.ModTools != "" {
		d.ToolPath = t.ModTools
		d.ToolFound = true
		d.Bridge = t.HasBridge()
	}

	if dir, ok := SavedGamePath(l); ok {
		d.GamePath = dir
		_, d.GamePathValid = validGameDir(dir, cfg.Game.ExeName)
	} else if cfg.Game.Path != "" {
		d.GamePath = cfg.Game.Path
		_, d.GamePathValid = validGameDir(cfg.Game.Path, cfg.Game.ExeName)
	}

	if status, ok := overlay.ReadStatus(l.StatusFile); ok {
		d.OverlayStatus = string(status)
	} else {
		d.OverlayStatus = "absent"
	}
	if sup != nil {
		d.OverlayRunning = sup.Running()
	}

	d.InstalledMods = countDirs(l.InstalledDir)
	d.ProfileFiles = countEntries(l.ProfileDir)
	d.CacheSizeBytes, _ = modcache.DirSize(l.InstalledDir)
	d.ProfileSizeBytes, _ = modcache.DirSize(l.ProfileDir)

	return d
}

func countDirs(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, entry := range entries {
		if entry.IsDir() {
			n++
		}
	}
	return n
}

func countEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	return len(entries)
}
