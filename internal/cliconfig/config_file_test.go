package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
sidecar_url = "wss://sidecar.example.com"
network = "test"
wallet = "payouts"
call_timeout = "90s"
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig failed: %v", err)
	}
	if fc.SidecarURL != "wss://sidecar.example.com" {
		t.Errorf("SidecarURL = %v", fc.SidecarURL)
	}
	if fc.Network != "test" {
		t.Errorf("Network = %v", fc.Network)
	}
	if fc.Wallet != "payouts" {
		t.Errorf("Wallet = %v", fc.Wallet)
	}
	if fc.CallTimeout != "90s" {
		t.Errorf("CallTimeout = %v", fc.CallTimeout)
	}
}

func TestLoadFileConfig_MissingFile(t *testing.T) {
	if _, err := LoadFileConfig("/nonexistent/config.toml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	path := writeConfigFile(t, "not = [valid toml")
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestApplyFileConfig(t *testing.T) {
	cfg := DefaultConfig()
	fc := fileConfig{
		SidecarURL:  "wss://sidecar.example.com",
		Network:     "test",
		Wallet:      "payouts",
		CallTimeout: "90s",
	}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if cfg.SidecarURL != "wss://sidecar.example.com" {
		t.Errorf("SidecarURL = %v", cfg.SidecarURL)
	}
	if cfg.Wallet != "payouts" {
		t.Errorf("Wallet = %v", cfg.Wallet)
	}
	if cfg.CallTimeout != 90*time.Second {
		t.Errorf("CallTimeout = %v, want 90s", cfg.CallTimeout)
	}
}

func TestApplyFileConfig_FlagPrecedence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Network = "local" // set via flag

	fc := fileConfig{Network: "test"}
	changed := map[string]bool{"network": true}

	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if cfg.Network != "local" {
		t.Errorf("Network = %v, want flag value to win", cfg.Network)
	}
}

func TestApplyFileConfig_InvalidDuration(t *testing.T) {
	cfg := DefaultConfig()
	fc := fileConfig{CallTimeout: "ninety seconds"}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestFileExists(t *testing.T) {
	path := writeConfigFile(t, "")
	if !FileExists(path) {
		t.Error("FileExists = false for existing file")
	}
	if FileExists(filepath.Join(t.TempDir(), "missing.toml")) {
		t.Error("FileExists = true for missing file")
	}
}
