// Package emuconfig provides configuration management for the headless
// core: which ROM to load, what the CLI should trace, and whether to
// start halted.
package emuconfig

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the settings the CLI's run command reads at startup.
type Config struct {
	ROM   ROMConfig   `json:"rom"`
	Debug DebugConfig `json:"debug"`

	configPath string
	loaded     bool
}

// ROMConfig names the cartridge to load and how to run it.
type ROMConfig struct {
	Path        string `json:"path"`
	MaxCycles   uint64 `json:"max_cycles"` // 0 means unbounded
	StartHalted bool   `json:"start_halted"`
}

// DebugConfig controls tracing and breakpoints.
type DebugConfig struct {
	TraceCycles bool     `json:"trace_cycles"`
	LogLevel    string   `json:"log_level"` // "DEBUG", "INFO", "WARN", "ERROR"
	Breakpoints []uint16 `json:"breakpoints"`
}

// NewConfig returns a Config with the headless runner's defaults.
func NewConfig() *Config {
	return &Config{
		ROM: ROMConfig{
			MaxCycles:   0,
			StartHalted: false,
		},
		Debug: DebugConfig{
			TraceCycles: false,
			LogLevel:    "INFO",
			Breakpoints: nil,
		},
	}
}

// LoadFromFile loads configuration from a JSON file, writing out the
// defaults first if the file does not yet exist.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("emuconfig: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("emuconfig: parsing %s: %w", path, err)
	}

	c.validate()
	c.loaded = true
	return nil
}

// SaveToFile writes the configuration to path as indented JSON.
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("emuconfig: marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("emuconfig: writing %s: %w", path, err)
	}
	c.configPath = path
	return nil
}

func (c *Config) validate() {
	switch c.Debug.LogLevel {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		c.Debug.LogLevel = "INFO"
	}
}

// IsLoaded reports whether the configuration was read from an existing file.
func (c *Config) IsLoaded() bool { return c.loaded }

// GetConfigPath returns the path last loaded or saved to, if any.
func (c *Config) GetConfigPath() string { return c.configPath }

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string { return "./config/gones.json" }
