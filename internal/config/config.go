// Package config loads and saves the churnboard TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DataEnv overrides the configured dataset path when set.
const DataEnv = "CHURNBOARD_DATA"

// Config holds all churnboard configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Filters    FilterConfig     `toml:"filters"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Export     ExportConfig     `toml:"export"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataFile string `toml:"data_file,omitempty"`
	NoCache  bool   `toml:"no_cache,omitempty"`
}

// FilterConfig holds the default filter selection. Unset fields mean
// "everything in the dataset".
type FilterConfig struct {
	Gas         []string `toml:"gas,omitempty"`
	Channels    []string `toml:"channels,omitempty"`
	MinProducts *int     `toml:"min_products,omitempty"`
	MaxProducts *int     `toml:"max_products,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds HTTP server settings for `churnboard serve`.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins,omitempty"`
}

// ExportConfig holds chart and workbook export settings.
type ExportConfig struct {
	Dir string `toml:"dir,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8050",
			CORSOrigins: []string{"*"},
		},
		Export: ExportConfig{
			Dir: "churnboard-export",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "churnboard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "churnboard")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config file at path over the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetDataFile returns the dataset path from env var or config, in that order.
func GetDataFile(cfg Config) string {
	if p := os.Getenv(DataEnv); p != "" {
		return p
	}
	return cfg.General.DataFile
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
