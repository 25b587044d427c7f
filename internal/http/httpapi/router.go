package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"photorestore/internal/http/handlers"
	"photorestore/internal/middleware"
)

// NewRouter mounts the public API. Every route is also reachable under /api
// for clients that proxy through a path prefix.
func NewRouter(app *handlers.App, sessions middleware.SessionVerifier) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(app.Logger),
		chimw.Recoverer,
	)
	if app.Config != nil {
		r.Use(middleware.CORS(app.Config.CORSAllowedOrigins))
	}

	r.Get("/healthz", app.Health)
	r.Get("/readyz", app.Readiness)
	r.Get("/metrics", app.MetricsHandler)

	rateLimit := 0
	if app.Config != nil {
		rateLimit = app.Config.RateLimitPerMin
	}
	limiter := middleware.RateLimit(rateLimit, time.Minute)
	auth := middleware.RequireSession(sessions, app.Logger)

	mount := func(r chi.Router) {
		r.With(auth, limiter).Post("/restore", app.Restore)
		r.Post("/webhooks/billing", app.BillingWebhook)
	}
	mount(r)
	r.Route("/api", mount)

	return r
}
