package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config but uses strings for durations to stay TOML
// friendly.
type fileConfig struct {
	SidecarURL  string `toml:"sidecar_url"`
	Network     string `toml:"network"`
	Wallet      string `toml:"wallet"`
	CallTimeout string `toml:"call_timeout"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path,
// ~/.spraay/config.toml, when the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".spraay", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc fileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("sidecar-url", fc.SidecarURL, &cfg.SidecarURL)
	s.setString("network", fc.Network, &cfg.Network)
	s.setString("wallet", fc.Wallet, &cfg.Wallet)

	return s.setDuration("timeout", fc.CallTimeout, &cfg.CallTimeout)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
