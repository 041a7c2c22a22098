package http

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
)

// HealthChecker defines the interface for health check dependencies
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f HealthCheckFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type dependency struct {
	name     string
	checker  HealthChecker
	critical bool
}

// HealthHandler handles health check requests. Critical dependencies decide
// readiness; the others only degrade the detailed report, since the dashboard
// still renders with warnings while they are down.
type HealthHandler struct {
	deps      []dependency
	timeout   time.Duration
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		timeout:   5 * time.Second,
		startTime: time.Now(),
		version:   version,
	}
}

// AddCheck registers a dependency. A nil checker is ignored.
func (h *HealthHandler) AddCheck(name string, checker HealthChecker, critical bool) *HealthHandler {
	if checker != nil {
		h.deps = append(h.deps, dependency{name: name, checker: checker, critical: critical})
	}
	return h
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Version   string           `json:"version,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
}

// Check represents an individual health check result
type Check struct {
	Status   string `json:"status"`
	Critical bool   `json:"critical"`
	Message  string `json:"message,omitempty"`
	Latency  string `json:"latency,omitempty"`
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleHealth)
	r.Get("/live", h.HandleLiveness)
	r.Get("/ready", h.HandleReadiness)
}

// HandleLiveness handles liveness probe requests (is the service running?)
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness handles readiness probe requests (can the service accept
// traffic?). Only critical dependencies are checked.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks, status := h.run(r.Context(), true)

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	WriteJSON(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
	})
}

// HandleHealth handles detailed health check requests (for monitoring/debugging)
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks, status := h.run(r.Context(), false)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := struct {
		HealthResponse
		Memory struct {
			Alloc      uint64 `json:"alloc_bytes"`
			TotalAlloc uint64 `json:"total_alloc_bytes"`
			Sys        uint64 `json:"sys_bytes"`
			NumGC      uint32 `json:"num_gc"`
		} `json:"memory"`
		Goroutines int `json:"goroutines"`
	}{
		HealthResponse: HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   h.version,
			Uptime:    time.Since(h.startTime).Round(time.Second).String(),
			Checks:    checks,
		},
		Goroutines: runtime.NumGoroutine(),
	}
	response.Memory.Alloc = memStats.Alloc
	response.Memory.TotalAlloc = memStats.TotalAlloc
	response.Memory.Sys = memStats.Sys
	response.Memory.NumGC = memStats.NumGC

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	WriteJSON(w, statusCode, response)
}

// run pings the dependencies. The overall status is unhealthy when a critical
// dependency fails and degraded when only others fail.
func (h *HealthHandler) run(ctx context.Context, criticalOnly bool) (map[string]Check, string) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	deps := make([]dependency, 0, len(h.deps))
	for _, d := range h.deps {
		if !criticalOnly || d.critical {
			deps = append(deps, d)
		}
	}

	checks := make(map[string]Check, len(deps))
	status := "healthy"
	for _, d := range deps {
		check := ping(ctx, d)
		checks[d.name] = check
		if check.Status == "healthy" {
			continue
		}
		if d.critical {
			status = "unhealthy"
		} else if status == "healthy" {
			status = "degraded"
		}
	}
	return checks, status
}

func ping(ctx context.Context, d dependency) Check {
	start := time.Now()
	err := d.checker.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:   "unhealthy",
			Critical: d.critical,
			Message:  err.Error(),
			Latency:  latency.String(),
		}
	}

	return Check{
		Status:   "healthy",
		Critical: d.critical,
		Latency:  latency.String(),
	}
}
