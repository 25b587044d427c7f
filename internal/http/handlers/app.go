package handlers

import (
	"context"
	"io"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"photorestore/internal/billing"
	"photorestore/internal/domain"
	"photorestore/internal/infra"
	"photorestore/internal/middleware"
)

// Restorer runs one restoration attempt.
type Restorer interface {
	Submit(ctx context.Context, payload domain.ImagePayload) domain.Outcome
}

// BillingHandler processes one billing webhook delivery.
type BillingHandler interface {
	Handle(ctx context.Context, h billing.Headers, body io.Reader) (domain.BillingEvent, error)
}

// App carries the dependencies shared by all HTTP handlers.
type App struct {
	Config   *infra.Config
	Logger   zerolog.Logger
	Restorer Restorer
	Billing  BillingHandler
	Metrics  http.Handler
	Ready    func(ctx context.Context) error

	restoreSlots *semaphore.Weighted
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, restorer Restorer, billingHandler BillingHandler, metrics http.Handler) *App {
	slots := int64(cfg.RestoreMaxConcurrent)
	if slots <= 0 {
		slots = 1
	}
	return &App{
		Config:       cfg,
		Logger:       logger,
		Restorer:     restorer,
		Billing:      billingHandler,
		Metrics:      metrics,
		restoreSlots: semaphore.NewWeighted(slots),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) requestLogger(r *http.Request) zerolog.Logger {
	return a.Logger.With().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("user_id", a.currentUserID(r)).
		Logger()
}
