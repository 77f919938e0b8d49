package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (SPRAAY_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("sidecar-url", os.Getenv("SPRAAY_SIDECAR_URL"), &cfg.SidecarURL)
	s.setString("network", os.Getenv("SPRAAY_NETWORK"), &cfg.Network)
	s.setString("wallet", os.Getenv("SPRAAY_WALLET"), &cfg.Wallet)

	return s.setDuration("timeout", os.Getenv("SPRAAY_CALL_TIMEOUT"), &cfg.CallTimeout)
}
