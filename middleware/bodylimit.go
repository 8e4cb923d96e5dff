package middleware

import "net/http"

// BodyLimit caps the size of inbound request bodies at limit bytes.
// Requests whose declared Content-Length already exceeds the limit are
// rejected with 413 before the handler runs; for the rest the body is
// wrapped in http.MaxBytesReader, so oversized chunked uploads fail at
// read time. A non-positive limit disables the middleware.
func BodyLimit(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}

			next.ServeHTTP(w, r)
		})
	}
}
