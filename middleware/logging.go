package middleware

import (
	"net/http"
	"time"

	"github.com/ejgyurisan/boar-server/logger"
)

// Logging writes one structured access-log entry per request: URI, method,
// response status, duration, and response size. The entry is emitted
// through the request-scoped logger, so it carries the request id when the
// RequestID middleware runs earlier in the chain.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()
		uri := r.RequestURI
		method := r.Method

		lw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(lw, r)

		log.Info().
			Str("uri", uri).
			Str("method", method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
