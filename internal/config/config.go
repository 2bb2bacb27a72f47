package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the activation settings for a modlay state root.
type Config struct {
	Version int           `yaml:"version"`
	Game    GameConfig    `yaml:"game"`
	Tools   ToolsConfig   `yaml:"tools"`
	Overlay OverlayConfig `yaml:"overlay"`
}

// GameConfig describes how the game installation is located and verified.
type GameConfig struct {
	// Path pins the game directory outright, bypassing detection.
	Path string `yaml:"path,omitempty"`

	// ExeName is the executable whose presence marks a valid game directory.
	ExeName string `yaml:"exe_name"`

	// SearchPaths are probed in order when no path has been saved.
	SearchPaths []string `yaml:"search_paths"`
}

// ToolsConfig overrides discovery of the external helper tools.
type ToolsConfig struct {
	// Dir points at the directory containing the mod-tools binary and the
	// native bridge component. Empty means auto-discover.
	Dir string `yaml:"dir,omitempty"`
}

// OverlayConfig holds the build flags passed to the overlay tool.
type OverlayConfig struct {
	NoTFT          *bool `yaml:"no_tft,omitempty"`
	IgnoreConflict *bool `yaml:"ignore_conflict,omitempty"`
}

// NoTFTValue returns the effective noTFT flag applying defaults.
func (o OverlayConfig) NoTFTValue() bool {
	if o.NoTFT == nil {
		return true
	}
	return *o.NoTFT
}

// IgnoreConflictValue returns the effective ignoreConflict flag applying defaults.
func (o OverlayConfig) IgnoreConflictValue() bool {
	if o.IgnoreConflict == nil {
		return true
	}
	return *o.IgnoreConflict
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Game: GameConfig{
			ExeName: "League of Legends.exe",
			SearchPaths: []string{
				`C:\Riot Games\League of Legends\Game`,
				`D:\Riot Games\League of Legends\Game`,
				`C:\Program Files\Riot Games\League of Legends\Game`,
				`C:\Program Files (x86)\Riot Games\League of Legends\Game`,
				`E:\Riot Games\League of Legends\Game`,
				`F:\Riot Games\League of Legends\Game`,
			},
		},
		Overlay: OverlayConfig{
			NoTFT:          boolPtr(true),
			IgnoreConflict: boolPtr(true),
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Game.ExeName == "" {
		c.Game.ExeName = def.Game.ExeName
	}
	if len(c.Game.SearchPaths) == 0 {
		c.Game.SearchPaths = def.Game.SearchPaths
	}
	if c.Overlay.NoTFT == nil {
		c.Overlay.NoTFT = def.Overlay.NoTFT
	}
	if c.Overlay.IgnoreConflict == nil {
		c.Overlay.IgnoreConflict = def.Overlay.IgnoreConflict
	}
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version %d", c.Version)
	}
	if c.Game.ExeName == "" {
		return errors.New("game.exe_name must not be empty")
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }
