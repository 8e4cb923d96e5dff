package config

import (
	"errors"
	"fmt"
)

// Validation errors returned by [Config.validate] when the merged
// configuration violates a bootstrap invariant.
var (
	// ErrInvalidPort indicates an out-of-range listener port.
	ErrInvalidPort = errors.New("invalid listener port")
	// ErrInvalidHTTPSConfig indicates an unusable TLS listener setup
	// (for example, a cert path without a key path).
	ErrInvalidHTTPSConfig = errors.New("invalid https configuration")
)

const (
	defaultViewsExt = ".gohtml"

	maxPort = 65535
)

// applyDefaults fills in values the merge left at their zero value.
func (cfg *Config) applyDefaults() {
	if cfg.Assets.ViewsExt == "" {
		cfg.Assets.ViewsExt = defaultViewsExt
	}
}

// validate checks that the final merged [Config] satisfies the bootstrap
// invariants before it is used at startup.
func (cfg *Config) validate() error {
	if cfg.Server.Port < 0 || cfg.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Server.Port)
	}

	if cfg.HTTPS.Enabled {
		// The TLS port is derived, so it must stay in range too.
		if cfg.Server.HTTPSPort() > maxPort {
			return fmt.Errorf("%w: derived https port %d exceeds %d",
				ErrInvalidHTTPSConfig, cfg.Server.HTTPSPort(), maxPort)
		}

		haveCert := cfg.HTTPS.CertFile != ""
		haveKey := cfg.HTTPS.KeyFile != ""
		if haveCert != haveKey {
			return fmt.Errorf("%w: cert and key paths must be set together", ErrInvalidHTTPSConfig)
		}
		if !haveCert && len(cfg.HTTPS.AutocertHosts) == 0 {
			return fmt.Errorf("%w: no cert/key paths and no autocert hosts", ErrInvalidHTTPSConfig)
		}
	}

	return nil
}
