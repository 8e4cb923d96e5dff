package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ejgyurisan/boar-server/logger"
)

// HealthPrefix is the mount point of the built-in health controller.
const HealthPrefix = "/healthz"

// Check is a named readiness probe. Attached model stores register
// themselves as checks so the health endpoint reflects database
// availability.
type Check interface {
	// Name identifies the check in the health response.
	Name() string

	// Ping reports readiness; a non-nil error marks the check failed.
	Ping(ctx context.Context) error
}

// Health is the bootstrap's built-in readiness controller. GET /healthz
// runs every registered check and answers 200 with {"status":"ok"} when
// all pass, or 503 listing the failed checks.
type Health struct {
	checks  []Check
	timeout time.Duration
}

// NewHealth constructs the health controller. A zero timeout defaults to
// one second per request.
func NewHealth(timeout time.Duration, checks ...Check) *Health {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Health{checks: checks, timeout: timeout}
}

// AddChecks registers additional readiness probes.
func (h *Health) AddChecks(checks ...Check) {
	h.checks = append(h.checks, checks...)
}

func (h *Health) Prefix() string { return HealthPrefix }

func (h *Health) Routes(r chi.Router) {
	r.Get("/", h.status)
}

type healthResponse struct {
	Status string   `json:"status"`
	Failed []string `json:"failed,omitempty"`
}

func (h *Health) status(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var failed []string
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			log.Err(err).Str("check", check.Name()).Msg("health check failed")
			failed = append(failed, check.Name())
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if len(failed) > 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "unavailable", Failed: failed})
		return
	}

	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok"})
}
