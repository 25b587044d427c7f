package handlers

import (
	"errors"
	"net/http"

	"photorestore/internal/billing"
)

// BillingWebhook verifies a Clerk billing delivery and records it.
func (a *App) BillingWebhook(w http.ResponseWriter, r *http.Request) {
	log := a.requestLogger(r)
	if a.Billing == nil {
		log.Error().Msg("billing: webhook secret not configured")
		a.error(w, http.StatusInternalServerError, "Webhook secret not configured")
		return
	}

	evt, err := a.Billing.Handle(r.Context(), billing.HeadersFrom(r.Header), r.Body)
	switch {
	case err == nil:
		log.Info().Str("event_type", string(evt.Type)).Str("svix_id", evt.MessageID).Msg("billing: webhook received")
		a.json(w, http.StatusOK, map[string]bool{"received": true})
	case errors.Is(err, billing.ErrSecretNotConfigured):
		log.Error().Msg("billing: webhook secret not configured")
		a.error(w, http.StatusInternalServerError, "Webhook secret not configured")
	case errors.Is(err, billing.ErrMissingHeaders):
		a.error(w, http.StatusBadRequest, "Missing svix headers")
	case errors.Is(err, billing.ErrInvalidSignature):
		a.error(w, http.StatusBadRequest, "Invalid webhook signature")
	case errors.Is(err, billing.ErrInvalidPayload):
		a.error(w, http.StatusBadRequest, "Invalid webhook payload")
	default:
		log.Error().Err(err).Msg("billing: processing webhook")
		a.error(w, http.StatusInternalServerError, "Internal server error")
	}
}
