package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, duration time.Duration) *Service {
	t.Helper()
	svc, err := NewService("test-secret", "boar-test", duration)
	require.NoError(t, err)
	return svc
}

func TestNewService_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		signKey  string
		issuer   string
		duration time.Duration
	}{
		{name: "empty sign key", issuer: "iss", duration: time.Hour},
		{name: "empty issuer", signKey: "key", duration: time.Hour},
		{name: "zero duration", signKey: "key", issuer: "iss"},
		{name: "negative duration", signKey: "key", issuer: "iss", duration: -time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.signKey, tt.issuer, tt.duration)
			require.Error(t, err)
		})
	}
}

func TestIssueAndParse_RoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	signed, err := svc.Issue("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	subject, err := svc.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)
}

func TestIssue_EmptySubject(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Issue("")
	require.Error(t, err)
}

func TestParse_ExpiredToken(t *testing.T) {
	svc := newTestService(t, time.Millisecond)

	signed, err := svc.Issue("user-42")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Parse(signed)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_WrongSignKey(t *testing.T) {
	svc := newTestService(t, time.Hour)
	signed, err := svc.Issue("user-42")
	require.NoError(t, err)

	other, err := NewService("other-secret", "boar-test", time.Hour)
	require.NoError(t, err)

	_, err = other.Parse(signed)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestParse_WrongIssuer(t *testing.T) {
	svc := newTestService(t, time.Hour)
	signed, err := svc.Issue("user-42")
	require.NoError(t, err)

	other, err := NewService("test-secret", "different-issuer", time.Hour)
	require.NoError(t, err)

	_, err = other.Parse(signed)
	require.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Parse("not.a.token")
	require.Error(t, err)
}
