package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker reports readiness of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type namedChecker struct {
	name    string
	checker HealthChecker
}

// NewRouter wires the portal's public endpoints.
func NewRouter(h *Handler, checks map[string]HealthChecker) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(RequestID)
	r.Use(ClientMetadata)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
		r.Get("/session", h.handleSession)
		r.Post("/navigate", h.handleNavigate)
	})

	named := make([]namedChecker, 0, len(checks))
	for name, checker := range checks {
		named = append(named, namedChecker{name: name, checker: checker})
	}
	r.Get("/healthz", healthz(named))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func healthz(checks []namedChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		failed := map[string]string{}
		for _, c := range checks {
			if err := c.checker.Health(ctx); err != nil {
				failed[c.name] = err.Error()
			}
		}
		if len(failed) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"failed": failed,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
