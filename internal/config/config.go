// Package config loads the boardgraph settings file.
//
// Config file locations (priority order):
//  1. the --config flag
//  2. $BOARDGRAPH_CONFIG
//  3. <user config dir>/boardgraph/config.yaml
//
// A missing file is not an error: defaults are used.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/boardgraph/pkg/board"
)

// EnvConfigPath names the environment variable holding a config path.
const EnvConfigPath = "BOARDGRAPH_CONFIG"

const configDirName = "boardgraph"

// Config holds user settings.
type Config struct {
	PinDiameter        float64 `yaml:"pin_diameter"`         // pad size for pins without one
	OutlinePinDiameter float64 `yaml:"outline_pin_diameter"` // pad size assumed for part outlines
	FallbackMargin     float64 `yaml:"fallback_margin"`      // raw units around a synthesised outline
	FillSpacing        float64 `yaml:"fill_spacing"`         // scanline spacing for board fill
	Annotations        bool    `yaml:"annotations"`          // open the annotation store next to boards
	HistoryFile        string  `yaml:"history_file"`
	HistoryMax         int     `yaml:"history_max"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	opts := board.DefaultOptions()
	return &Config{
		PinDiameter:        opts.PinDiameter,
		OutlinePinDiameter: opts.OutlinePinDiameter,
		FallbackMargin:     opts.FallbackMargin,
		FillSpacing:        3,
		Annotations:        true,
		HistoryFile:        defaultHistoryPath(),
		HistoryMax:         20,
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.PinDiameter <= 0 {
		c.PinDiameter = d.PinDiameter
	}
	if c.OutlinePinDiameter <= 0 {
		c.OutlinePinDiameter = d.OutlinePinDiameter
	}
	if c.FallbackMargin <= 0 {
		c.FallbackMargin = d.FallbackMargin
	}
	if c.FillSpacing <= 0 {
		c.FillSpacing = d.FillSpacing
	}
	if c.HistoryFile == "" {
		c.HistoryFile = d.HistoryFile
	}
	if c.HistoryMax <= 0 {
		c.HistoryMax = d.HistoryMax
	}
}

// BoardOptions returns the graph builder tuning for c.
func (c *Config) BoardOptions() board.Options {
	return board.Options{
		PinDiameter:        c.PinDiameter,
		OutlinePinDiameter: c.OutlinePinDiameter,
		FallbackMargin:     c.FallbackMargin,
	}
}

// Load reads the config at path, or the first default location when path
// is empty. It returns the path actually used, empty when defaults apply.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = FindConfigPath()
	}
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{Annotations: true}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, path, nil
}

// Save writes c to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// FindConfigPath returns the first existing config file, or "".
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}
	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, configDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, "history.json")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
