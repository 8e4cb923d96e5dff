package middleware

import (
	"net"
	"net/http"
	"strconv"
)

// EnforceSSLConfig controls the [EnforceSSL] middleware.
type EnforceSSLConfig struct {
	// HTTPSPort is the port of the TLS listener redirects point at.
	HTTPSPort int

	// ExemptPaths are request paths served over plain HTTP without a
	// redirect (e.g. a load-balancer health check).
	ExemptPaths []string
}

// EnforceSSL permanently redirects plaintext requests to the TLS listener.
// Requests that already arrived over TLS — directly or behind a proxy that
// set X-Forwarded-Proto: https — pass through, as do the configured exempt
// paths.
func EnforceSSL(cfg EnforceSSLConfig) func(http.Handler) http.Handler {
	exempt := make(map[string]struct{}, len(cfg.ExemptPaths))
	for _, p := range cfg.ExemptPaths {
		exempt[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isTLS(r) {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			host := r.Host
			if h, _, err := net.SplitHostPort(host); err == nil {
				host = h
			}

			target := "https://" + net.JoinHostPort(host, strconv.Itoa(cfg.HTTPSPort)) + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)
		})
	}
}
