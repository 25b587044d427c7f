package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"photorestore/internal/domain"
	"photorestore/internal/imagecodec"
)

type restoreRequest struct {
	Image string `json:"image"`
}

type restoreResponse struct {
	RestoredImage string               `json:"restoredImage"`
	Analysis      string               `json:"analysis"`
	Message       string               `json:"message"`
	Outcome       domain.OutcomeKind   `json:"outcome"`
	FailureReason domain.FailureReason `json:"failureReason,omitempty"`
}

// Restore accepts {"image": "<data url>"} and answers 200 for every outcome
// of the model call. Model failures come back with the original image.
func (a *App) Restore(w http.ResponseWriter, r *http.Request) {
	log := a.requestLogger(r)
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("restore: handler panicked")
			a.error(w, http.StatusInternalServerError, "Failed to restore image")
		}
	}()

	if a.currentUserID(r) == "" {
		a.error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if a.Config != nil && a.Config.MaxImageBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxImageBytes)
	}
	var req restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "Image too large")
			return
		}
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payload, err := decodeImage(req.Image)
	switch {
	case errors.Is(err, domain.ErrMissingInput):
		a.error(w, http.StatusBadRequest, "No image provided")
		return
	case err != nil:
		a.error(w, http.StatusBadRequest, "Invalid image format")
		return
	}

	if a.restoreSlots != nil {
		if err := a.restoreSlots.Acquire(r.Context(), 1); err != nil {
			log.Warn().Err(err).Msg("restore: no capacity")
			a.error(w, http.StatusServiceUnavailable, "Restoration capacity exhausted")
			return
		}
		defer a.restoreSlots.Release(1)
	}

	outcome := a.Restorer.Submit(r.Context(), payload)
	log.Info().
		Str("outcome", string(outcome.Kind)).
		Str("reason", string(outcome.Reason)).
		Str("mime", payload.MimeType).
		Msg("restore: completed")

	a.json(w, http.StatusOK, restoreResponse{
		RestoredImage: imagecodec.EncodePayload(outcome.Image),
		Analysis:      outcome.Analysis,
		Message:       outcome.Message,
		Outcome:       outcome.Kind,
		FailureReason: outcome.Reason,
	})
}

func decodeImage(raw string) (domain.ImagePayload, error) {
	if raw == "" {
		return domain.ImagePayload{}, domain.ErrMissingInput
	}
	return imagecodec.Decode(raw)
}
