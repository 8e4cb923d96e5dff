// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The boar-server Authors

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ejgyurisan/boar-server/logger"
	"github.com/ejgyurisan/boar-server/token"
)

// Sentinel errors returned while extracting the bearer token from the
// Authorization header.
var (
	ErrEmptyAuthorizationHeader   = errors.New("empty Authorization header")
	ErrInvalidAuthorizationHeader = errors.New("invalid Authorization header")
	ErrEmptyToken                 = errors.New("empty token")
)

// TokenParser validates a raw bearer token and returns the subject it was
// issued for. *token.Service satisfies it.
type TokenParser interface {
	Parse(tokenString string) (subject string, err error)
}

type subjectCtxKey struct{}

// Auth enforces bearer-token authentication. It extracts the token from
// the Authorization header, validates it through parser, and stores the
// authenticated subject in the request context where handlers can read it
// via [SubjectFromContext].
//
// Requests are rejected with 401 and the JSON error envelope when the
// header is missing or malformed, or when the token is expired or invalid.
func Auth(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromRequest(r)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Err(ErrEmptyAuthorizationHeader).Send()
				WriteError(w, http.StatusUnauthorized, ErrEmptyAuthorizationHeader.Error())
				return
			}

			tokenString, err := bearerToken(authHeader)
			if err != nil {
				log.Err(err).Send()
				WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}

			subject, err := parser.Parse(tokenString)
			if err != nil {
				switch {
				case errors.Is(err, token.ErrTokenExpired):
					log.Err(err).Msg("token expired")
					WriteError(w, http.StatusUnauthorized, token.ErrTokenExpired.Error())
				default:
					log.Err(err).Msg("error occurred during parsing token")
					WriteError(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
				}
				return
			}

			ctx := context.WithValue(r.Context(), subjectCtxKey{}, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext returns the authenticated subject stored by [Auth],
// or "" when the request did not pass through the middleware.
func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(subjectCtxKey{}).(string)
	return subject
}

// bearerToken extracts the token from an "Authorization: <scheme> <token>"
// header value.
func bearerToken(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	if parts[1] == "" {
		return "", ErrEmptyToken
	}

	return parts[1], nil
}
