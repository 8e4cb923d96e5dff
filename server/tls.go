package server

import (
	"crypto/tls"
	"fmt"

	"golang.org/x/crypto/acme/autocert"
)

// FileTLSConfig builds a TLS configuration from PEM-encoded certificate
// and key files on disk.
func FileTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("error loading TLS key pair: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// AutocertTLSConfig builds a TLS configuration that obtains and renews
// certificates automatically through ACME for the given hosts, caching
// them in cacheDir.
func AutocertTLSConfig(hosts []string, cacheDir string) *tls.Config {
	m := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(hosts...),
	}
	if cacheDir != "" {
		m.Cache = autocert.DirCache(cacheDir)
	}

	cfg := m.TLSConfig()
	cfg.MinVersion = tls.VersionTLS12
	return cfg
}
