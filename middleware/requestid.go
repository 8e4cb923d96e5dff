package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ejgyurisan/boar-server/logger"
)

// RequestIDHeader is the header the request-id middleware reads from the
// request and always sets on the response.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an identifier. An identifier supplied
// by the caller in the X-Request-ID header is reused; otherwise a fresh
// UUID is generated. The identifier is echoed back in the response header
// and recorded on a child logger attached to the request context, so every
// log line produced downstream carries it.
func RequestID(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			l := log.Child()
			l.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("request_id", requestID)
			})
			r = r.WithContext(l.WithContext(ctx))

			w.Header().Set(RequestIDHeader, requestID)
			next.ServeHTTP(w, r)
		})
	}
}
