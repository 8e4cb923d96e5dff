package middleware

import "net/http"

// MethodOverrideHeader carries the verb a POST request should be treated
// as. Only PUT, PATCH and DELETE are honored.
const MethodOverrideHeader = "X-HTTP-Method-Override"

var overridableMethods = map[string]struct{}{
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// MethodOverride rewrites the method of POST requests that carry a valid
// X-HTTP-Method-Override header, for clients (old browsers, simple forms)
// that can only issue GET and POST. Non-POST requests and unrecognized
// override values pass through untouched.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if override := r.Header.Get(MethodOverrideHeader); override != "" {
				if _, ok := overridableMethods[override]; ok {
					r.Method = override
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}
