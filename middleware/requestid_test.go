package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejgyurisan/boar-server/logger"
)

func TestRequestID_TableTest(t *testing.T) {
	tests := []struct {
		name          string
		requestID     string
		wantSameID    bool // response header must equal requestID
		wantValidUUID bool // response header must be a valid UUID
	}{
		{
			name:       "request id from header is reused",
			requestID:  "my-custom-request-id",
			wantSameID: true,
		},
		{
			name:          "no request id in request generates UUID",
			wantValidUUID: true,
		},
		{
			name:       "UUID string as incoming request id",
			requestID:  "550e8400-e29b-41d4-a716-446655440000",
			wantSameID: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			mw := RequestID(logger.Nop())(next)
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}

			rr := httptest.NewRecorder()
			mw.ServeHTTP(rr, req)

			responseID := rr.Header().Get(RequestIDHeader)
			require.NotEmpty(t, responseID, "X-Request-ID header must be set in response")
			assert.True(t, nextCalled)

			if tt.wantSameID {
				assert.Equal(t, tt.requestID, responseID)
			}
			if tt.wantValidUUID {
				_, err := uuid.Parse(responseID)
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestID_LoggerAttachedToContext(t *testing.T) {
	var captured *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	})

	mw := RequestID(logger.Nop())(next)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	mw.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, captured)
	assert.NotNil(t, logger.FromRequest(captured))
}
