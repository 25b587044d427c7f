// Package billing verifies and records Clerk billing webhooks.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"photorestore/internal/domain"
)

// MaxBodyBytes caps a webhook body.
const MaxBodyBytes = 1 << 20

var (
	ErrSecretNotConfigured = errors.New("webhook secret not configured")
	ErrInvalidPayload      = errors.New("invalid webhook payload")
)

// Observer is notified once per accepted event.
type Observer interface {
	RecordBillingEvent(eventType domain.BillingEventType)
}

// Service turns a raw webhook delivery into a recorded domain.BillingEvent.
type Service struct {
	verifier *Verifier
	recorder Recorder
	observer Observer
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService builds a Service. A nil verifier makes every delivery fail with
// ErrSecretNotConfigured.
func NewService(verifier *Verifier, recorder Recorder, observer Observer, logger zerolog.Logger) *Service {
	return &Service{
		verifier: verifier,
		recorder: recorder,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Handle verifies, parses, logs and records one delivery. The body is read
// only after the secret and headers check out, and at most MaxBodyBytes of it.
func (s *Service) Handle(ctx context.Context, h Headers, r io.Reader) (domain.BillingEvent, error) {
	if s.verifier == nil {
		return domain.BillingEvent{}, ErrSecretNotConfigured
	}
	if !h.Complete() {
		return domain.BillingEvent{}, ErrMissingHeaders
	}
	body, err := readBody(r, MaxBodyBytes)
	if err != nil {
		return domain.BillingEvent{}, err
	}
	if err := s.verifier.Verify(h, body); err != nil {
		s.logger.Warn().Err(err).Str("svix_id", h.ID).Msg("billing: webhook verification failed")
		return domain.BillingEvent{}, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Type == "" {
		return domain.BillingEvent{}, ErrInvalidPayload
	}

	evt := domain.BillingEvent{
		MessageID:  h.ID,
		Type:       domain.BillingEventType(env.Type),
		Data:       env.Data,
		ReceivedAt: s.now().UTC(),
	}
	s.logEvent(evt)

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, evt); err != nil {
			return evt, fmt.Errorf("record billing event: %w", err)
		}
	}
	if s.observer != nil {
		s.observer.RecordBillingEvent(evt.Type)
	}
	return evt, nil
}

// readBody reads at most limit bytes of a webhook body.
func readBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if int64(len(body)) > limit {
		return nil, ErrInvalidPayload
	}
	return body, nil
}

func (s *Service) logEvent(evt domain.BillingEvent) {
	var msg string
	switch evt.Type {
	case domain.BillingSubscriptionCreated:
		msg = "billing: subscription created"
	case domain.BillingSubscriptionUpdated:
		msg = "billing: subscription updated"
	case domain.BillingSubscriptionDeleted:
		msg = "billing: subscription deleted"
	case domain.BillingPaymentSucceeded:
		msg = "billing: payment succeeded"
	case domain.BillingPaymentFailed:
		msg = "billing: payment failed"
	default:
		s.logger.Info().Str("event_type", string(evt.Type)).Str("svix_id", evt.MessageID).Msg("billing: unhandled event type")
		return
	}
	s.logger.Info().
		Str("event_type", string(evt.Type)).
		Str("svix_id", evt.MessageID).
		RawJSON("data", rawOrEmpty(evt.Data)).
		Msg(msg)
}

func rawOrEmpty(b json.RawMessage) []byte {
	if len(b) == 0 || !json.Valid(b) {
		return []byte("{}")
	}
	return b
}
