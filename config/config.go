// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The boar-server Authors

package config

import (
	"time"
)

// HTTPSPortOffset is added to the plaintext port to derive the TLS
// listener port when HTTPS serving is enabled.
const HTTPSPortOffset = 10000

// Config is the top-level configuration container for a boar application.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON
// file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type Config struct {
	// Server holds port and timeout settings for the HTTP listeners.
	Server Server `envPrefix:"SERVER_"`

	// HTTPS controls the optional TLS listener started on
	// Server.Port + HTTPSPortOffset.
	HTTPS HTTPS `envPrefix:"HTTPS_"`

	// Assets holds the locations of static files and view templates.
	Assets Assets `envPrefix:"ASSETS_"`

	// Storage holds the database connection settings used by attached
	// models.
	Storage Storage `envPrefix:"STORAGE_"`

	// Auth holds the token signing settings for the bearer-auth
	// middleware.
	Auth Auth `envPrefix:"AUTH_"`

	// ConfigFile is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the BOAR_CONFIG environment variable or the
	// -c / -config flag.
	ConfigFile string `env:"BOAR_CONFIG"`
}

// Server holds network and timeout settings for the inbound listeners.
type Server struct {
	// Port is the TCP port the plaintext HTTP listener binds to.
	// Env: SERVER_PORT
	Port int `env:"PORT"`

	// RequestTimeout caps how long a single inbound request may take
	// before the read/write deadlines cut it off (e.g. "30s").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds the graceful-close of all listeners.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// BodyLimit is the maximum accepted request body size in bytes.
	// Zero disables the limit.
	// Env: SERVER_BODY_LIMIT
	BodyLimit int64 `env:"BODY_LIMIT"`
}

// HTTPS controls the TLS listener. When Enabled is set the bootstrap
// starts a second listener on Server.Port + HTTPSPortOffset. Certificate
// material comes either from the CertFile/KeyFile paths or, when those
// are empty and AutocertHosts is not, from an ACME autocert manager.
type HTTPS struct {
	// Enabled turns the TLS listener on.
	// Env: HTTPS_ENABLED
	Enabled bool `env:"ENABLED"`

	// CertFile is the path to the PEM-encoded server certificate.
	// Env: HTTPS_CERT_FILE
	CertFile string `env:"CERT_FILE"`

	// KeyFile is the path to the PEM-encoded private key.
	// Env: HTTPS_KEY_FILE
	KeyFile string `env:"KEY_FILE"`

	// AutocertHosts is the host allowlist for automatic certificates.
	// Used only when CertFile/KeyFile are empty.
	// Env: HTTPS_AUTOCERT_HOSTS (comma-separated)
	AutocertHosts []string `env:"AUTOCERT_HOSTS"`

	// AutocertCacheDir is where obtained certificates are cached.
	// Env: HTTPS_AUTOCERT_CACHE_DIR
	AutocertCacheDir string `env:"AUTOCERT_CACHE_DIR"`
}

// Assets holds the on-disk locations the bootstrap serves files and
// templates from.
type Assets struct {
	// StaticDir is the directory served under the static URL prefix.
	// Env: ASSETS_STATIC_DIR
	StaticDir string `env:"STATIC_DIR"`

	// ViewsDir is the directory the view renderer loads templates from.
	// Env: ASSETS_VIEWS_DIR
	ViewsDir string `env:"VIEWS_DIR"`

	// ViewsExt is the template file extension (default ".gohtml").
	// Env: ASSETS_VIEWS_EXT
	ViewsExt string `env:"VIEWS_EXT"`
}

// Storage holds the database settings used by attached models.
type Storage struct {
	// DSN selects and configures the database backend. DSNs with a
	// postgres:// or postgresql:// scheme use the pgx driver; everything
	// else is opened as an SQLite file.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`
}

// Auth holds settings for the bearer-token middleware.
type Auth struct {
	// TokenSignKey is the HMAC secret used to sign and verify tokens.
	// Env: AUTH_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in issued tokens.
	// Env: AUTH_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is how long issued tokens stay valid.
	// Env: AUTH_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// HTTPSPort returns the port the TLS listener binds to.
func (s Server) HTTPSPort() int {
	return s.Port + HTTPSPortOffset
}

// Load loads, merges, and validates the application configuration from all
// available sources in the following priority order (later sources
// override earlier ones for non-zero fields):
//  1. Environment variables
//  2. Command-line flags (args, typically os.Args[1:])
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *Config or an error if any source fails to
// load or the merged result fails validation.
func Load(args []string) (*Config, error) {
	return newBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}

// LoadEnv loads configuration from environment variables and an optional
// JSON file only, skipping command-line flags. Intended for embedding the
// bootstrap in binaries that own their own flag handling, and for tests.
func LoadEnv() (*Config, error) {
	return newBuilder().
		withEnv().
		withJSON().
		build()
}
