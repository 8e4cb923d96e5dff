package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/ejgyurisan/boar-server/logger"
)

// Recovery converts panics in downstream handlers into a 500 response with
// the bootstrap's JSON error envelope, and logs the panic value together
// with a stack trace through the request-scoped logger.
//
// http.ErrAbortHandler is re-panicked so the server can abort the
// connection the way net/http documents.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				// A panic before the request-id middleware ran means no
				// request-scoped logger is attached; zerolog then hands
				// back its disabled default, so fall back to the app
				// logger.
				l := logger.FromRequest(r)
				if l.GetLevel() == zerolog.Disabled {
					l = log
				}
				l.Error().
					Any("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				WriteError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
