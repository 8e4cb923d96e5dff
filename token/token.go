// Package token issues and validates the HMAC-SHA256 JWT tokens consumed
// by the bearer-auth middleware.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by [Service.Parse] when the token is
// syntactically valid but its expiry has passed.
var ErrTokenExpired = errors.New("token is expired")

// Service signs and verifies tokens with a shared HMAC secret.
type Service struct {
	signKey  []byte
	issuer   string
	duration time.Duration
}

// NewService constructs a token service. All parameters are required.
func NewService(signKey, issuer string, duration time.Duration) (*Service, error) {
	if signKey == "" || issuer == "" || duration <= 0 {
		return nil, errors.New("invalid token service params")
	}

	return &Service{
		signKey:  []byte(signKey),
		issuer:   issuer,
		duration: duration,
	}, nil
}

// Issue creates a signed token for subject with the standard claims:
// iss, sub, iat and exp (now plus the configured duration).
func (s *Service) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("empty subject")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return signed, nil
}

// Parse verifies tokenString's signature, issuer and expiry, and returns
// the subject claim. Expired tokens yield [ErrTokenExpired].
func (s *Service) Parse(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.signKey, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("error parsing token: %w", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}

	return claims.Subject, nil
}
