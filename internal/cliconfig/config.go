// Package cliconfig loads CLI configuration for spraay with the precedence
// flags > environment (SPRAAY_*) > config file > defaults.
package cliconfig

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultSidecarURL is the default endpoint of the wallet sidecar that
// composes, signs and submits chain transactions on spraay's behalf.
const DefaultSidecarURL = "ws://127.0.0.1:7977"

// DefaultNetwork is the network passed to the sidecar ("finney" is mainnet).
const DefaultNetwork = "finney"

// Config holds CLI configuration for spraay.
type Config struct {
	// SidecarURL is the websocket endpoint of the wallet sidecar.
	SidecarURL string

	// Network selects the chain the sidecar connects to
	// (finney, test, local).
	Network string

	// Wallet is the name of the sending wallet known to the sidecar.
	Wallet string

	// CallTimeout bounds each sidecar round-trip. Submissions that wait
	// for finalization can take a while, so the default is generous.
	CallTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SidecarURL:  DefaultSidecarURL,
		Network:     DefaultNetwork,
		CallTimeout: 120 * time.Second,
		Wallet:      os.Getenv("SPRAAY_WALLET"),
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.SidecarURL == "" {
		c.SidecarURL = DefaultSidecarURL
	}
	if !strings.HasPrefix(c.SidecarURL, "ws://") && !strings.HasPrefix(c.SidecarURL, "wss://") {
		return fmt.Errorf("sidecar-url must be a ws:// or wss:// endpoint")
	}
	c.SidecarURL = strings.TrimRight(c.SidecarURL, "/")

	if c.Network == "" {
		c.Network = DefaultNetwork
	}

	if c.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive")
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
